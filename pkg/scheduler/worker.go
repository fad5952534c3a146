package scheduler

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jzx17/gosched/pkg/faults"
	"github.com/jzx17/gosched/pkg/queue"
	"github.com/jzx17/gosched/pkg/retry"
	"github.com/jzx17/gosched/pkg/types"
)

// taskSource names where a worker claimed a task from
type taskSource int

const (
	sourceNone taskSource = iota
	sourceLocal
	sourceInjector
	sourcePeer
)

// String returns the string representation of taskSource
func (s taskSource) String() string {
	switch s {
	case sourceLocal:
		return "local"
	case sourceInjector:
		return "injector"
	case sourcePeer:
		return "peer"
	default:
		return "none"
	}
}

// workerTask is implemented by tasks that need the executing worker
type workerTask interface {
	runOn(w *worker)
}

// worker owns one deque and runs the scheduling loop on one goroutine
type worker struct {
	id    int
	state int32 // atomic types.WorkerState

	local    *queue.Deque
	injector *queue.Injector
	stealers []*queue.Stealer
	notifier *notifier
	rt       *Runtime

	contention   retry.ContentionPolicy
	lockOSThread bool
	clock        types.Clock
	logger       zerolog.Logger
	faultHandler faults.FaultHandler

	// statistics
	executed     int64
	fromLocal    int64
	fromInjector int64
	stolen       int64
	panicked     int64
	parks        int64
	lastTaskTime int64 // Unix nanosecond timestamp
}

// run is the worker loop. Sources are tried in strict priority order and the
// search restarts from the top after every task.
func (w *worker) run() {
	if w.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	defer atomic.StoreInt32(&w.state, int32(types.WorkerStateStopped))

	w.logger.Debug().Msg("worker started")
	defer func() {
		w.logger.Debug().Int64("executed", atomic.LoadInt64(&w.executed)).Msg("worker stopped")
	}()

	for {
		if task, src := w.findTask(); task != nil {
			w.execute(task, src)
			continue
		}

		atomic.StoreInt32(&w.state, int32(types.WorkerStateParked))
		res := w.notifier.park(w.hasWork)
		atomic.StoreInt32(&w.state, int32(types.WorkerStateIdle))

		switch res {
		case parkClosed:
			return
		case parkWoken:
			atomic.AddInt64(&w.parks, 1)
		}
	}
}

// findTask claims the next task: own deque, then injector, then peers
func (w *worker) findTask() (types.Task, taskSource) {
	if task, ok := w.local.Pop(); ok {
		return task, sourceLocal
	}

	if task, res := w.contention.Steal(w.injector); res == queue.StealSuccess {
		return task, sourceInjector
	}

	// peers are visited in index order, starting after our own slot
	n := len(w.stealers)
	for i := 1; i < n; i++ {
		victim := w.stealers[(w.id+i)%n]
		if task, res := w.contention.Steal(victim); res == queue.StealSuccess {
			return task, sourcePeer
		}
	}

	return nil, sourceNone
}

// hasWork reports whether any source this worker can reach holds a task
func (w *worker) hasWork() bool {
	if !w.local.IsEmpty() || !w.injector.IsEmpty() {
		return true
	}
	for i, st := range w.stealers {
		if i != w.id && !st.IsEmpty() {
			return true
		}
	}
	return false
}

// execute runs one task to completion and records statistics
func (w *worker) execute(task types.Task, src taskSource) {
	atomic.StoreInt32(&w.state, int32(types.WorkerStateWorking))
	defer atomic.StoreInt32(&w.state, int32(types.WorkerStateIdle))

	startTime := w.clock.Now()
	atomic.StoreInt64(&w.lastTaskTime, startTime.UnixNano())

	switch src {
	case sourceLocal:
		atomic.AddInt64(&w.fromLocal, 1)
	case sourceInjector:
		atomic.AddInt64(&w.fromInjector, 1)
	case sourcePeer:
		atomic.AddInt64(&w.stolen, 1)
	}

	err := w.runTask(task)
	atomic.AddInt64(&w.executed, 1)

	if err != nil {
		atomic.AddInt64(&w.panicked, 1)
		w.handleFault(err, task, src)
	}

	if e := w.logger.Trace(); e.Enabled() {
		e.Str("source", src.String()).Dur("took", w.clock.Since(startTime)).Msg("task finished")
	}
}

// runTask calls the task with panic recovery support
func (w *worker) runTask(task types.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)
			err = types.NewTaskPanicError(w.id, r, string(buf[:n]))
		}
	}()

	if wt, ok := task.(workerTask); ok {
		wt.runOn(w)
		return nil
	}
	task.Run()
	return nil
}

// handleFault reports a recovered failure. The worker keeps running.
func (w *worker) handleFault(err error, task types.Task, src taskSource) {
	if pe, ok := err.(*types.TaskPanicError); ok {
		pe.WithContext("source", src.String())
	}

	fault := faults.NewFaultContext(err, w.id, task, src.String(), w.clock.Now())
	if handledErr := w.faultHandler.HandleFault(context.Background(), fault); handledErr != nil {
		w.logger.Warn().Err(handledErr).Msg("fault handler failed")
	}
}

// stats returns a snapshot of the worker's counters
func (w *worker) stats() types.WorkerStats {
	var last time.Time
	if ns := atomic.LoadInt64(&w.lastTaskTime); ns != 0 {
		last = time.Unix(0, ns)
	}
	return types.WorkerStats{
		ID:           w.id,
		State:        types.WorkerState(atomic.LoadInt32(&w.state)),
		Executed:     atomic.LoadInt64(&w.executed),
		FromLocal:    atomic.LoadInt64(&w.fromLocal),
		FromInjector: atomic.LoadInt64(&w.fromInjector),
		Stolen:       atomic.LoadInt64(&w.stolen),
		Panicked:     atomic.LoadInt64(&w.panicked),
		Parks:        atomic.LoadInt64(&w.parks),
		LocalQueued:  w.local.Len(),
		LastTaskTime: last,
	}
}
