package accountlib

import (
	"github.com/FabianSimtlix/bitgo-account-lib/config"
	"github.com/FabianSimtlix/bitgo-account-lib/logger"
	"github.com/FabianSimtlix/bitgo-account-lib/metrics"
)

type Option func(*AccountLib)

func WithLogger(l logger.Logger) Option {
	return func(a *AccountLib) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(a *AccountLib) {
		if r != nil {
			a.metrics = r
		}
	}
}

// WithRegistry replaces the built-in network constants.
func WithRegistry(r *config.Registry) Option {
	return func(a *AccountLib) {
		if r != nil {
			a.registry = r
		}
	}
}
