package queue

import (
	"sync"
	"sync/atomic"

	"github.com/jzx17/gosched/pkg/types"
)

// deque is the storage shared between a Deque and its Stealers
type deque struct {
	mu     sync.Mutex
	items  ring
	length int64
}

func (d *deque) setLength() {
	atomic.StoreInt64(&d.length, int64(d.items.len()))
}

func (d *deque) len() int {
	return int(atomic.LoadInt64(&d.length))
}

// Deque is a worker-owned double-ended queue. Push and Pop must only be called
// by the owning worker; peers use a Stealer.
type Deque struct {
	d *deque
}

// NewDeque creates an empty worker deque
func NewDeque() *Deque {
	return &Deque{d: &deque{items: newRing(minRingCapacity)}}
}

// Push adds task to the back of the deque
func (q *Deque) Push(task types.Task) {
	q.d.mu.Lock()
	q.d.items.pushBack(task)
	q.d.setLength()
	q.d.mu.Unlock()
}

// Pop removes the most recently pushed task
func (q *Deque) Pop() (types.Task, bool) {
	if q.d.len() == 0 {
		return nil, false
	}
	q.d.mu.Lock()
	defer q.d.mu.Unlock()

	task, ok := q.d.items.popBack()
	if ok {
		q.d.setLength()
	}
	return task, ok
}

// Len returns the number of queued tasks
func (q *Deque) Len() int {
	return q.d.len()
}

// IsEmpty reports whether the deque holds no tasks
func (q *Deque) IsEmpty() bool {
	return q.d.len() == 0
}

// Stealer returns a handle that removes tasks from the front of the deque
func (q *Deque) Stealer() *Stealer {
	return &Stealer{d: q.d}
}

// Stealer takes work from another worker's deque. It is safe for concurrent use.
type Stealer struct {
	d *deque
}

// Steal removes the oldest task in the deque. A contended deque yields
// StealRetry rather than blocking the thief.
func (s *Stealer) Steal() (types.Task, Steal) {
	if s.d.len() == 0 {
		return nil, StealEmpty
	}
	if !s.d.mu.TryLock() {
		return nil, StealRetry
	}
	defer s.d.mu.Unlock()

	task, ok := s.d.items.popFront()
	if !ok {
		return nil, StealEmpty
	}
	s.d.setLength()
	return task, StealSuccess
}

// Len returns the number of tasks in the underlying deque
func (s *Stealer) Len() int {
	return s.d.len()
}

// IsEmpty reports whether the underlying deque holds no tasks
func (s *Stealer) IsEmpty() bool {
	return s.d.len() == 0
}
