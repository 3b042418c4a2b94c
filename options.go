package batchgo

type options struct {
	logger *Logger
}

// Option configures Batcher construction behavior.
//
// Options exist to avoid exploding the constructor surface; the selector,
// arity, strength, and batch cap stay positional because they define the
// instance's identity.
type Option func(*options)

// WithLogger configures the logger used by the dispatcher.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
