package metrics

import "time"

// Event names recorded by builder factories.
const (
	EventBuild        = "build"
	EventBuildFailure = "build_failure"
	EventParse        = "parse"
	EventParseFailure = "parse_failure"
)

// Recorder receives counters and latencies. Labels carry "coin" and "type".
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
