package dialect

import "log/slog"

// Option configures the calls in this package that observe a live
// connection (CanConnect, Probe, Columns). The pure compiler surfaces
// take no options.
type Option func(*settings)

type settings struct {
	log *slog.Logger
}

// WithLogger routes a call's logging to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

func newSettings(opts []Option) settings {
	s := settings{log: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
