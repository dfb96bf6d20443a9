package notifier

import "log/slog"

// Option is a functional option for configuring the controller.
type Option func(*controllerOptions)

type controllerOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(o *controllerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
