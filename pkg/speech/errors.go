package speech

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoCommand is returned when an exec engine has no command.
	ErrNoCommand = errors.New("speech: command required")

	// ErrNoEngine is returned when a chain has no engines.
	ErrNoEngine = errors.New("speech: no engines available")
)

// ChainError aggregates per-engine failures from a chain attempt.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("speech: all %d engines failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual engine errors to errors.Is/As.
func (e *ChainError) Unwrap() []error {
	return e.Errors
}

// EngineError wraps an error with engine context.
type EngineError struct {
	Engine string
	Err    error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("speech [%s]: %v", e.Engine, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with engine context.
func WrapError(engine string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Engine: engine, Err: err}
}
