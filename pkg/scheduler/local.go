package scheduler

import (
	"runtime"
	"sync/atomic"

	"github.com/jzx17/gosched/pkg/types"
)

// Local lets a running task push work onto the deque of the worker executing
// it. Peers steal that work when they run out of their own.
//
// A Local is only bound to its worker while the task that received it is
// running. Afterwards Spawn falls back to the runtime's injector.
type Local struct {
	w      *worker
	rt     *Runtime
	active int32
}

// Spawn pushes task onto the current worker's deque and wakes one idle peer
func (l *Local) Spawn(task types.Task) error {
	if task == nil {
		return types.ErrNilTask
	}
	if l.w == nil || atomic.LoadInt32(&l.active) == 0 {
		return l.rt.Spawn(task)
	}

	l.w.local.Push(task)
	atomic.AddInt64(&l.rt.spawned, 1)
	l.w.notifier.wakeOne()
	return nil
}

// SpawnFunc is Spawn for a plain function
func (l *Local) SpawnFunc(fn func()) error {
	if fn == nil {
		return types.ErrNilTask
	}
	return l.Spawn(types.TaskFunc(fn))
}

// WorkerID returns the id of the worker running the task, or -1 when unbound
func (l *Local) WorkerID() int {
	if l.w == nil || atomic.LoadInt32(&l.active) == 0 {
		return -1
	}
	return l.w.id
}

// Yield hints the Go scheduler to run something else on this thread. The task
// itself is not suspended or requeued.
func (l *Local) Yield() {
	runtime.Gosched()
}

// localTask carries a function that wants a Local handle
type localTask struct {
	rt *Runtime
	fn func(*Local)
}

// Run executes the task without a worker binding
func (t *localTask) Run() {
	t.fn(&Local{rt: t.rt})
}

func (t *localTask) runOn(w *worker) {
	l := &Local{w: w, rt: t.rt, active: 1}
	defer atomic.StoreInt32(&l.active, 0)
	t.fn(l)
}
