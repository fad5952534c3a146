// Package faults provides the failure boundary reporting used when a task
// panics on a worker
package faults

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jzx17/gosched/pkg/types"
)

// FaultHandler receives task failures recovered by a worker
type FaultHandler interface {
	// HandleFault handles the fault, returns a non-nil error if the handler
	// itself could not process it
	HandleFault(ctx context.Context, fault *FaultContext) error

	// Name returns the name of the fault handler
	Name() string
}

// FaultContext defines context information when a task fails
type FaultContext struct {
	// Err is the recovered failure, usually a *types.TaskPanicError
	Err error

	// WorkerID is the worker that ran the task
	WorkerID int

	// Task is the task that failed
	Task types.Task

	// Source names the queue the task was claimed from
	Source string

	// Timestamp when the fault was recovered
	Timestamp time.Time

	// Metadata contains additional metadata information
	Metadata map[string]interface{}
}

// NewFaultContext creates a new fault context
func NewFaultContext(err error, workerID int, task types.Task, source string, at time.Time) *FaultContext {
	return &FaultContext{
		Err:       err,
		WorkerID:  workerID,
		Task:      task,
		Source:    source,
		Timestamp: at,
		Metadata:  make(map[string]interface{}),
	}
}

// Stack returns the captured stack trace, if any
func (fc *FaultContext) Stack() string {
	if pe, ok := fc.Err.(*types.TaskPanicError); ok {
		return pe.Stack
	}
	return ""
}

// LogHandler writes faults to a zerolog logger
type LogHandler struct {
	logger zerolog.Logger
}

// NewLogHandler creates a handler that logs every fault at error level
func NewLogHandler(logger zerolog.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// HandleFault implements the FaultHandler interface
func (h *LogHandler) HandleFault(ctx context.Context, fault *FaultContext) error {
	ev := h.logger.Error().
		Err(fault.Err).
		Int("worker_id", fault.WorkerID).
		Str("source", fault.Source).
		Time("at", fault.Timestamp)
	if stack := fault.Stack(); stack != "" {
		ev = ev.Str("stack", stack)
	}
	ev.Msg("task panicked")
	return nil
}

// Name returns the handler name
func (h *LogHandler) Name() string {
	return "Log"
}

// ChannelHandler forwards faults to a supervisory channel without blocking
// the worker. Faults that do not fit are dropped and counted.
type ChannelHandler struct {
	ch      chan *FaultContext
	dropped int64
}

// NewChannelHandler creates a channel handler with the given buffer size
func NewChannelHandler(buffer int) *ChannelHandler {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelHandler{ch: make(chan *FaultContext, buffer)}
}

// HandleFault implements the FaultHandler interface
func (h *ChannelHandler) HandleFault(ctx context.Context, fault *FaultContext) error {
	select {
	case h.ch <- fault:
		return nil
	default:
		atomic.AddInt64(&h.dropped, 1)
		return fmt.Errorf("fault channel full, dropped fault from worker %d", fault.WorkerID)
	}
}

// Name returns the handler name
func (h *ChannelHandler) Name() string {
	return "Channel"
}

// Faults returns the channel faults are delivered on
func (h *ChannelHandler) Faults() <-chan *FaultContext {
	return h.ch
}

// Dropped returns the number of faults dropped because the channel was full
func (h *ChannelHandler) Dropped() int64 {
	return atomic.LoadInt64(&h.dropped)
}

// FuncHandler adapts a function to the FaultHandler interface
type FuncHandler struct {
	name string
	fn   func(ctx context.Context, fault *FaultContext) error
}

// NewFuncHandler creates a handler backed by fn
func NewFuncHandler(name string, fn func(ctx context.Context, fault *FaultContext) error) *FuncHandler {
	return &FuncHandler{name: name, fn: fn}
}

// HandleFault implements the FaultHandler interface
func (h *FuncHandler) HandleFault(ctx context.Context, fault *FaultContext) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(ctx, fault)
}

// Name returns the handler name
func (h *FuncHandler) Name() string {
	return h.name
}

// ChainHandler delivers each fault to every registered handler in order
type ChainHandler struct {
	handlers []FaultHandler
	mu       sync.RWMutex
}

// NewChainHandler creates a chain of handlers, skipping nil entries
func NewChainHandler(handlers ...FaultHandler) *ChainHandler {
	c := &ChainHandler{}
	for _, h := range handlers {
		if h != nil {
			c.handlers = append(c.handlers, h)
		}
	}
	return c
}

// Add appends a handler to the chain
func (c *ChainHandler) Add(handler FaultHandler) error {
	if handler == nil {
		return fmt.Errorf("cannot register nil handler")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.handlers {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already registered", handler.Name())
		}
	}
	c.handlers = append(c.handlers, handler)
	return nil
}

// HandleFault implements the FaultHandler interface. Every handler runs even
// if an earlier one fails; the first failure is returned.
func (c *ChainHandler) HandleFault(ctx context.Context, fault *FaultContext) error {
	c.mu.RLock()
	handlers := c.handlers
	c.mu.RUnlock()

	var first error
	for _, h := range handlers {
		if err := h.HandleFault(ctx, fault); err != nil && first == nil {
			first = fmt.Errorf("handler %s: %w", h.Name(), err)
		}
	}
	return first
}

// Name returns the handler name
func (c *ChainHandler) Name() string {
	return "Chain"
}

// Names lists the handlers in the chain in delivery order
func (c *ChainHandler) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.handlers))
	for i, h := range c.handlers {
		names[i] = h.Name()
	}
	return names
}
