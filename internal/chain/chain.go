// Package chain runs an ordered list of fallible setup steps, stopping at
// the first failure. It backs Stage bootstrap, where each step (spawn the
// Logger, spawn the PassiveMinder, spawn Play) depends on the one before it
// succeeding.
package chain

import "go.uber.org/multierr"

// Chain accumulates the errors from a sequence of runners.
type Chain struct {
	failFast bool
	errs     []error
}

// Option configures a Chain at creation time.
type Option func(*Chain)

// New creates an empty Chain.
func New(opts ...Option) *Chain {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithFailFast makes AddRunner skip every runner after the first one fails.
// Bootstrap always uses this: a failed Logger spawn makes a PassiveMinder
// spawn on top of it meaningless.
func WithFailFast() Option {
	return func(c *Chain) { c.failFast = true }
}

// AddRunner runs fn immediately and records its error. If the chain is
// already fail-fast and holding an error, fn is skipped rather than run.
func (c *Chain) AddRunner(fn func() error) *Chain {
	if c.failFast && len(c.errs) > 0 {
		return c
	}
	if err := fn(); err != nil {
		c.errs = append(c.errs, err)
	}
	return c
}

// Run returns the chain's accumulated error: the first one under
// WithFailFast, or every error combined via multierr otherwise.
func (c *Chain) Run() error {
	if c.failFast {
		if len(c.errs) == 0 {
			return nil
		}
		return c.errs[0]
	}

	var err error
	for _, e := range c.errs {
		err = multierr.Append(err, e)
	}
	return err
}
