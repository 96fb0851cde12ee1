package logger

// Logger is the structured logger used by builder factories and the CLI. Fields are
// attached as key/value pairs; callers never pass key material.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type NoopLogger struct{}

var _ Logger = NoopLogger{}

func (NoopLogger) Debug(string, map[string]any) {}
func (NoopLogger) Info(string, map[string]any)  {}
func (NoopLogger) Warn(string, map[string]any)  {}
func (NoopLogger) Error(string, map[string]any) {}

// WithFields returns a Logger that adds base to every entry. Fields passed at the call
// site take precedence.
func WithFields(l Logger, base map[string]any) Logger {
	if _, ok := l.(NoopLogger); ok || len(base) == 0 {
		return l
	}
	cp := make(map[string]any, len(base))
	for k, v := range base {
		cp[k] = v
	}
	return scoped{next: l, base: cp}
}

type scoped struct {
	next Logger
	base map[string]any
}

func (s scoped) merge(fields map[string]any) map[string]any {
	out := make(map[string]any, len(s.base)+len(fields))
	for k, v := range s.base {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (s scoped) Debug(msg string, fields map[string]any) { s.next.Debug(msg, s.merge(fields)) }
func (s scoped) Info(msg string, fields map[string]any)  { s.next.Info(msg, s.merge(fields)) }
func (s scoped) Warn(msg string, fields map[string]any)  { s.next.Warn(msg, s.merge(fields)) }
func (s scoped) Error(msg string, fields map[string]any) { s.next.Error(msg, s.merge(fields)) }
