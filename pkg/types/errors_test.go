package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrRuntimeClosed", ErrRuntimeClosed},
		{"ErrRuntimeRunning", ErrRuntimeRunning},
		{"ErrRuntimeNotStarted", ErrRuntimeNotStarted},
		{"ErrNilTask", ErrNilTask},
		{"ErrTimeout", ErrTimeout},
		{"ErrAlreadyInitialized", ErrAlreadyInitialized},
		{"ErrInvalidConfig", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("expected error, got nil")
			}
			if tt.err.Error() == "" {
				t.Errorf("expected non-empty error message")
			}
		})
	}
}

func TestTaskPanicError(t *testing.T) {
	t.Run("String Value", func(t *testing.T) {
		pe := NewTaskPanicError(3, "boom", "stack")

		expectedMsg := "task panicked on worker 3: boom"
		if pe.Error() != expectedMsg {
			t.Errorf("expected message %q, got %q", expectedMsg, pe.Error())
		}
		if pe.Unwrap() != nil {
			t.Errorf("expected nil unwrap for non-error panic value")
		}
	})

	t.Run("Error Value", func(t *testing.T) {
		cause := errors.New("disk gone")
		pe := NewTaskPanicError(0, cause, "")

		if !errors.Is(pe, cause) {
			t.Errorf("expected errors.Is to find the panic value")
		}
	})

	t.Run("Context", func(t *testing.T) {
		pe := NewTaskPanicError(1, 42, "").WithContext("source", "injector")

		if pe.Context["source"] != "injector" {
			t.Errorf("expected context value, got %v", pe.Context["source"])
		}
	})

	t.Run("Zero Value Context", func(t *testing.T) {
		pe := &TaskPanicError{}
		pe.WithContext("k", "v")
		if pe.Context["k"] != "v" {
			t.Errorf("expected context to be allocated lazily")
		}
	})
}

func TestIsTaskPanic(t *testing.T) {
	pe := NewTaskPanicError(2, "x", "")
	wrapped := fmt.Errorf("worker failure: %w", pe)

	if !IsTaskPanic(wrapped) {
		t.Errorf("expected wrapped panic error to be detected")
	}
	if IsTaskPanic(errors.New("plain")) {
		t.Errorf("expected plain error not to be a panic")
	}
	if IsTaskPanic(nil) {
		t.Errorf("expected nil not to be a panic")
	}
}
