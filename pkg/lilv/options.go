package lilv

import "github.com/gramotor/lilv-go/pkg/lilv/logging"

// Option customizes a World at construction time.
type Option func(*options)

type options struct {
	native   Native
	logger   logging.Logger
	observer Observer
}

func defaultOptions() options {
	return options{
		native:   DefaultNative(),
		logger:   logging.Discard(),
		observer: NopObserver{},
	}
}

// WithNative replaces the lilv collaborator. Nil keeps the default.
func WithNative(n Native) Option {
	return func(o *options) {
		if n != nil {
			o.native = n
		}
	}
}

// WithLogger attaches a logger. Nil keeps the default discarding logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver attaches lifecycle hooks, e.g. from package telemetry.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
