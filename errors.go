package handlerchain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPriority is raised when a negative priority is used.
	ErrInvalidPriority = errors.New("handlerchain: priority must be non-negative")
	// ErrNilHandler is raised when a nil handler, handler func or set is registered.
	ErrNilHandler = errors.New("handlerchain: nil handler")
	// ErrHandlerPanic matches errors recorded for handlers that panicked.
	ErrHandlerPanic = errors.New("handlerchain: handler panicked")
	// ErrInvalidConfig is returned by NewFromConfig for unusable settings.
	ErrInvalidConfig = errors.New("handlerchain: invalid config")
)

// PanicError is the task error recorded when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrHandlerPanic, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
