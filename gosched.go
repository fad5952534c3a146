/*
Package gosched runs lightweight tasks on a process-wide work-stealing
runtime.

The default runtime is created on first use with one worker per available
processor and lives for the rest of the process. Programs that need explicit
lifecycle control create their own runtime with pkg/scheduler instead.

	gosched.Go(func() {
		fmt.Println("hello from a worker")
	})
*/
package gosched

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/jzx17/gosched/pkg/scheduler"
	"github.com/jzx17/gosched/pkg/types"
)

var (
	defaultRuntime atomic.Pointer[scheduler.Runtime]
	initMu         sync.Mutex
)

// Init creates and starts the default runtime. It is safe to call from many
// goroutines; only the first call builds the worker pool.
func Init() {
	if defaultRuntime.Load() != nil {
		return
	}
	if _, err := initDefault(scheduler.DefaultConfig()); err != nil {
		// unreachable with DefaultConfig
		panic(err)
	}
}

// InitWithConfig creates and starts the default runtime with cfg. It returns
// types.ErrAlreadyInitialized if the default runtime already exists. The
// runtime is always made persistent, whatever cfg.Persistent says.
func InitWithConfig(cfg *scheduler.Config) error {
	created, err := initDefault(cfg)
	if err != nil {
		return err
	}
	if !created {
		return types.ErrAlreadyInitialized
	}
	return nil
}

func initDefault(cfg *scheduler.Config) (bool, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if defaultRuntime.Load() != nil {
		return false, nil
	}

	if cfg == nil {
		cfg = scheduler.DefaultConfig()
	}
	persistent := *cfg
	persistent.Persistent = true

	rt, err := scheduler.New(&persistent)
	if err != nil {
		return false, err
	}
	if err := rt.Start(context.Background()); err != nil {
		return false, err
	}
	defaultRuntime.Store(rt)
	return true, nil
}

// Default returns the default runtime, creating it if needed. The default
// runtime is persistent: its Shutdown returns types.ErrRuntimePersistent.
func Default() *scheduler.Runtime {
	if rt := defaultRuntime.Load(); rt != nil {
		return rt
	}
	Init()
	return defaultRuntime.Load()
}

// Go runs fn on the default runtime. A nil fn is ignored.
func Go(fn func()) {
	if fn == nil {
		return
	}
	Spawn(types.TaskFunc(fn))
}

// Spawn queues task on the default runtime. A nil task is ignored.
func Spawn(task types.Task) {
	if task == nil {
		return
	}
	rt := Default()
	if err := rt.Spawn(task); err != nil {
		rt.Logger().Error().Err(err).Msg("spawn on default runtime failed")
	}
}

// YieldNow hints the Go scheduler to run something else on this thread. It is
// advisory and never touches the task queues; calling it outside a task is
// harmless.
func YieldNow() {
	runtime.Gosched()
}
