package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jzx17/gosched/pkg/queue"
	"github.com/jzx17/gosched/pkg/types"
)

const (
	stateCreated int32 = iota
	stateRunning
	stateClosed
)

// Runtime is a fixed pool of workers sharing one injector and stealing from
// each other's deques
type Runtime struct {
	config   Config
	injector *queue.Injector
	stealers []*queue.Stealer
	workers  []*worker
	notifier *notifier

	// mu orders state changes against injector pushes so that no task is
	// accepted after the workers have been told to drain and exit
	mu    sync.RWMutex
	state int32

	clock          types.Clock
	clockFromStart bool

	spawned int64
	live    int32

	wg   sync.WaitGroup
	done chan struct{}
}

// New creates a runtime with cfg. Workers are not launched until Start.
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	resolved := cfg.resolve()

	rt := &Runtime{
		config:   resolved,
		injector: queue.NewInjector(),
		notifier: newNotifier(),
		done:     make(chan struct{}),
		clock:    resolved.Clock,
	}
	if rt.clock == nil {
		rt.clock = types.NewRealClock()
		rt.clockFromStart = true
	}

	n := resolved.Workers
	deques := make([]*queue.Deque, n)
	rt.stealers = make([]*queue.Stealer, n)
	for i := 0; i < n; i++ {
		deques[i] = queue.NewDeque()
		rt.stealers[i] = deques[i].Stealer()
	}

	rt.workers = make([]*worker, n)
	for i := 0; i < n; i++ {
		rt.workers[i] = &worker{
			id:           i,
			local:        deques[i],
			injector:     rt.injector,
			stealers:     rt.stealers,
			notifier:     rt.notifier,
			rt:           rt,
			contention:   resolved.Contention,
			lockOSThread: resolved.LockOSThread,
			logger:       resolved.Logger.With().Int("worker_id", i).Logger(),
			faultHandler: resolved.FaultHandler,
		}
	}

	return rt, nil
}

// Start launches the workers and returns without waiting for them to become
// idle. Cancelling ctx closes the runtime like Shutdown, without waiting.
func (rt *Runtime) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt.mu.Lock()
	switch rt.state {
	case stateRunning:
		rt.mu.Unlock()
		return types.ErrRuntimeRunning
	case stateClosed:
		rt.mu.Unlock()
		return types.ErrRuntimeClosed
	}
	rt.state = stateRunning
	if rt.clockFromStart {
		rt.clock = types.ClockFromContext(ctx)
	}
	clock := rt.clock

	for _, w := range rt.workers {
		w.clock = clock
		w.contention = rt.config.Contention.WithClock(clock)
		rt.wg.Add(1)
		atomic.AddInt32(&rt.live, 1)
		go func(w *worker) {
			defer rt.wg.Done()
			defer atomic.AddInt32(&rt.live, -1)
			w.run()
		}(w)
	}
	rt.mu.Unlock()

	go func() {
		rt.wg.Wait()
		close(rt.done)
	}()

	if ctx.Done() != nil && !rt.config.Persistent {
		go func() {
			select {
			case <-ctx.Done():
				rt.config.Logger.Debug().Err(ctx.Err()).Msg("start context ended, closing runtime")
				rt.close()
			case <-rt.done:
			}
		}()
	}

	rt.config.Logger.Debug().Int("workers", len(rt.workers)).Msg("runtime started")
	return nil
}

// Spawn pushes task onto the injector and wakes one idle worker. The wake is
// best-effort: if no worker is parked it is dropped, and workers pick the
// task up on their next pass over the queues.
func (rt *Runtime) Spawn(task types.Task) error {
	if task == nil {
		return types.ErrNilTask
	}

	rt.mu.RLock()
	switch rt.state {
	case stateCreated:
		rt.mu.RUnlock()
		return types.ErrRuntimeNotStarted
	case stateClosed:
		rt.mu.RUnlock()
		return types.ErrRuntimeClosed
	}
	rt.injector.Push(task)
	atomic.AddInt64(&rt.spawned, 1)
	rt.mu.RUnlock()

	rt.notifier.wakeOne()
	return nil
}

// SpawnFunc is Spawn for a plain function
func (rt *Runtime) SpawnFunc(fn func()) error {
	if fn == nil {
		return types.ErrNilTask
	}
	return rt.Spawn(types.TaskFunc(fn))
}

// SpawnLocal spawns fn with a Local handle bound to the worker that runs it,
// so fn can fan out onto that worker's own deque
func (rt *Runtime) SpawnLocal(fn func(*Local)) error {
	if fn == nil {
		return types.ErrNilTask
	}
	return rt.Spawn(&localTask{rt: rt, fn: fn})
}

// close stops accepting tasks and tells the workers to exit once every queue
// is empty. It reports whether this call performed the transition. A
// persistent runtime never closes.
func (rt *Runtime) close() bool {
	if rt.config.Persistent {
		return false
	}

	rt.mu.Lock()
	prev := rt.state
	rt.state = stateClosed
	rt.mu.Unlock()

	switch prev {
	case stateClosed:
		return false
	case stateCreated:
		// no workers were ever launched
		close(rt.done)
	}
	rt.notifier.close()
	return true
}

// Shutdown stops accepting new tasks, lets the workers drain every queued
// task and waits for them to exit. It returns types.ErrTimeout when the
// configured ShutdownTimeout elapses first, or ctx's error if ctx ends first.
// Shutdown is safe to call more than once. A persistent runtime is left
// running and types.ErrRuntimePersistent is returned.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	if rt.config.Persistent {
		return types.ErrRuntimePersistent
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if rt.close() {
		rt.config.Logger.Info().Int("pending", rt.Stats().Pending()).Msg("runtime shutting down")
	}

	rt.mu.RLock()
	clock := rt.clock
	rt.mu.RUnlock()

	var timeout <-chan time.Time
	if rt.config.ShutdownTimeout > 0 {
		timer := clock.NewTimer(rt.config.ShutdownTimeout)
		defer timer.Stop()
		timeout = timer.C()
	}

	select {
	case <-rt.done:
		return nil
	case <-timeout:
		rt.config.Logger.Warn().Int32("live_workers", atomic.LoadInt32(&rt.live)).Msg("shutdown timed out")
		return fmt.Errorf("%w: %d workers still running after %v",
			types.ErrTimeout, atomic.LoadInt32(&rt.live), rt.config.ShutdownTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed once every worker has exited
func (rt *Runtime) Done() <-chan struct{} {
	return rt.done
}

// Logger returns the runtime's lifecycle logger
func (rt *Runtime) Logger() *zerolog.Logger {
	return rt.config.Logger
}

// IsPersistent reports whether the runtime refuses to shut down
func (rt *Runtime) IsPersistent() bool {
	return rt.config.Persistent
}

// Workers returns the fixed number of workers
func (rt *Runtime) Workers() int {
	return len(rt.workers)
}

// IsRunning checks if the runtime is accepting tasks
func (rt *Runtime) IsRunning() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.state == stateRunning
}

// IsClosed checks if the runtime has been shut down
func (rt *Runtime) IsClosed() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.state == stateClosed
}

// Stats gets aggregate runtime statistics
func (rt *Runtime) Stats() types.RuntimeStats {
	stats := types.RuntimeStats{
		Workers:        len(rt.workers),
		LiveWorkers:    int(atomic.LoadInt32(&rt.live)),
		ParkedWorkers:  rt.notifier.parked(),
		InjectorQueued: rt.injector.Len(),
		Spawned:        atomic.LoadInt64(&rt.spawned),
	}

	for _, w := range rt.workers {
		ws := w.stats()
		if ws.IsActive() {
			stats.ActiveWorkers++
		}
		stats.LocalQueued += ws.LocalQueued
		stats.Executed += ws.Executed
		stats.Stolen += ws.Stolen
		stats.Panicked += ws.Panicked
	}
	return stats
}

// WorkerStats gets statistics of all workers
func (rt *Runtime) WorkerStats() []types.WorkerStats {
	stats := make([]types.WorkerStats, len(rt.workers))
	for i, w := range rt.workers {
		stats[i] = w.stats()
	}
	return stats
}

var _ types.Scheduler = (*Runtime)(nil)
