package handle

import "log/slog"

// Option configures a Handle at construction time.
type Option func(*Handle)

// WithLogger sets the logger used for lifecycle events (stream
// creation, close, resource release). Handles log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handle) {
		h.log = logger
	}
}
