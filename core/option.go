package core

import "errors"

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// All options are optional. Without options the Core evaluates silently.
//
// Example:
//
//	c, err := core.New(
//	    core.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// WithLogger sets an optional logger for the Core.
//
// When configured, the Core logs configuration conflicts at warn level and
// the reason of every other evaluation at debug level. Token contents are
// never logged, only claim names.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
