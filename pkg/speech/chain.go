package speech

import (
	"context"
	"errors"
	"log/slog"
)

// Chain implements Engine by trying multiple engines in order.
// The first successful engine wins; if all fail, Speak returns an
// aggregate error.
type Chain struct {
	engines []Engine
	logger  *slog.Logger
}

// NewChain creates an engine chain that tries engines in order.
// At least one engine is required.
func NewChain(engines ...Engine) (*Chain, error) {
	if len(engines) == 0 {
		return nil, ErrNoEngine
	}

	return &Chain{
		engines: engines,
		logger:  slog.Default().With("component", "speech.chain"),
	}, nil
}

// NewChainWithLogger creates an engine chain with a custom logger.
func NewChainWithLogger(logger *slog.Logger, engines ...Engine) (*Chain, error) {
	chain, err := NewChain(engines...)
	if err != nil {
		return nil, err
	}
	chain.logger = logger.With("component", "speech.chain")
	return chain, nil
}

// Speak tries each engine until one succeeds.
func (c *Chain) Speak(ctx context.Context, text string) error {
	var errs []error

	for i, e := range c.engines {
		err := e.Speak(ctx, text)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback engine succeeded",
					"engine_index", i,
					"chars", len(text),
				)
			}
			return nil
		}

		errs = append(errs, err)
		c.logger.Warn("engine failed, trying next",
			"engine_index", i,
			"error", err,
		)

		// Check if context was cancelled
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return &ChainError{Errors: errs}
}

// Close closes every engine in the chain.
func (c *Chain) Close() error {
	var errs []error
	for _, e := range c.engines {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Verify Chain implements Engine at compile time.
var _ Engine = (*Chain)(nil)
