package scheduler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/jzx17/gosched/pkg/faults"
	"github.com/jzx17/gosched/pkg/retry"
	"github.com/jzx17/gosched/pkg/types"
)

// Config defines configuration for a Runtime
type Config struct {
	// Workers is the number of worker goroutines. Zero or less means one per
	// available processor, as reported by runtime.GOMAXPROCS(0) at New.
	Workers int

	// LockOSThread pins each worker goroutine to its own OS thread
	LockOSThread bool

	// Contention bounds retries against a contended injector or peer deque
	Contention retry.ContentionPolicy

	// ShutdownTimeout caps how long Shutdown waits for workers to drain.
	// Zero means wait until the context passed to Shutdown ends.
	ShutdownTimeout time.Duration

	// Clock for time operations (optional, defaults to the clock carried by
	// the Start context, then to the real clock)
	Clock types.Clock

	// Logger receives lifecycle events (optional, defaults to a no-op logger)
	Logger *zerolog.Logger

	// Persistent makes Shutdown and Start context cancellation no-ops. The
	// runtime then lives for the rest of the process.
	Persistent bool

	// FaultHandler receives recovered task panics (optional, defaults to
	// logging them through Logger)
	FaultHandler faults.FaultHandler
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:         0,
		Contention:      retry.DefaultContentionPolicy(),
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate checks the configuration for out of range values
func (c *Config) Validate() error {
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown timeout must not be negative, got %v",
			types.ErrInvalidConfig, c.ShutdownTimeout)
	}
	return c.Contention.Validate()
}

// resolve returns a copy of c with every optional field filled in
func (c *Config) resolve() Config {
	out := *c
	if out.Workers <= 0 {
		out.Workers = runtime.GOMAXPROCS(0)
	}
	if out.Contention.MaxAttempts == 0 && out.Contention.Backoff == nil {
		out.Contention = retry.DefaultContentionPolicy()
	}
	if out.Logger == nil {
		nop := zerolog.Nop()
		out.Logger = &nop
	}
	if out.FaultHandler == nil {
		out.FaultHandler = faults.NewLogHandler(*out.Logger)
	}
	return out
}
