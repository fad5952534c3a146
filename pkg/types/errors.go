// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrRuntimeClosed indicates the runtime has been shut down
	ErrRuntimeClosed = errors.New("runtime is closed")

	// ErrRuntimeRunning indicates the runtime is already running
	ErrRuntimeRunning = errors.New("runtime is already running")

	// ErrRuntimeNotStarted indicates the runtime has not been started
	ErrRuntimeNotStarted = errors.New("runtime is not started")

	// ErrNilTask indicates a nil task was submitted
	ErrNilTask = errors.New("task cannot be nil")

	// ErrTimeout indicates operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrAlreadyInitialized indicates the default runtime already exists
	ErrAlreadyInitialized = errors.New("default runtime is already initialized")

	// ErrRuntimePersistent indicates a runtime that cannot be shut down
	ErrRuntimePersistent = errors.New("runtime is persistent and cannot be shut down")

	// ErrInvalidConfig indicates a configuration value is out of range
	ErrInvalidConfig = errors.New("invalid config")
)

// TaskPanicError records a panic raised by a task's Run method
type TaskPanicError struct {
	// WorkerID is the worker that was running the task
	WorkerID int

	// Value is the value passed to panic
	Value interface{}

	// Stack is the goroutine stack captured at recovery
	Stack string

	// Context contains additional information about the failure
	Context map[string]interface{}
}

// NewTaskPanicError creates a new panic error
func NewTaskPanicError(workerID int, value interface{}, stack string) *TaskPanicError {
	return &TaskPanicError{
		WorkerID: workerID,
		Value:    value,
		Stack:    stack,
		Context:  make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("task panicked on worker %d: %v", e.WorkerID, e.Value)
}

// Unwrap returns the panic value when it is itself an error
func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// WithContext adds error context
func (e *TaskPanicError) WithContext(key string, value interface{}) *TaskPanicError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsTaskPanic reports whether err wraps a TaskPanicError
func IsTaskPanic(err error) bool {
	var pe *TaskPanicError
	return errors.As(err, &pe)
}
