package queue

import (
	"sync"
	"sync/atomic"

	"github.com/jzx17/gosched/pkg/types"
)

// Injector is an unbounded multi-producer multi-consumer FIFO queue
type Injector struct {
	mu    sync.Mutex
	items ring

	// length mirrors items.len() so IsEmpty can be checked without the lock
	length int64
}

// NewInjector creates an empty injector
func NewInjector() *Injector {
	return &Injector{items: newRing(minRingCapacity)}
}

// Push appends task to the tail of the queue. It never fails.
func (q *Injector) Push(task types.Task) {
	q.mu.Lock()
	q.items.pushBack(task)
	atomic.StoreInt64(&q.length, int64(q.items.len()))
	q.mu.Unlock()
}

// Steal removes the task at the head of the queue. It does not wait for a
// contended lock and reports StealRetry instead.
func (q *Injector) Steal() (types.Task, Steal) {
	if q.IsEmpty() {
		return nil, StealEmpty
	}
	if !q.mu.TryLock() {
		return nil, StealRetry
	}
	defer q.mu.Unlock()

	task, ok := q.items.popFront()
	if !ok {
		return nil, StealEmpty
	}
	atomic.StoreInt64(&q.length, int64(q.items.len()))
	return task, StealSuccess
}

// Len returns the number of queued tasks
func (q *Injector) Len() int {
	return int(atomic.LoadInt64(&q.length))
}

// IsEmpty reports whether the queue holds no tasks
func (q *Injector) IsEmpty() bool {
	return q.Len() == 0
}
