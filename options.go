package pe

// options configures Open/OpenBytes behavior that isn't part of the
// spec-mandated contract (status codes, (value, bool) queries) but is
// useful ambient configuration for hosting code. Zero value is the
// fully-silent default.
type options struct {
	logger Logger
}

// Option configures a Handle at construction time.
type Option func(*options)

// WithLogger attaches a diagnostic sink. The core never fails or changes
// behavior based on logging; a nil Logger (the default) makes the Handle
// entirely silent, matching spec.md §7 "no exceptions escape the library."
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

func (h *Handle) logf(level Level, format string, args ...any) {
	if h.opts.logger == nil {
		return
	}
	h.opts.logger.Logf(level, format, args...)
}
