package queue

import (
	"github.com/jzx17/gosched/pkg/types"
)

const minRingCapacity = 16

// ring is a growable circular buffer of tasks. It is not safe for concurrent
// use; callers hold their own lock.
type ring struct {
	buf  []types.Task
	head int
	size int
}

func newRing(capacity int) ring {
	if capacity < minRingCapacity {
		capacity = minRingCapacity
	}
	return ring{buf: make([]types.Task, capacity)}
}

func (r *ring) len() int {
	return r.size
}

func (r *ring) pushBack(task types.Task) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.size)%len(r.buf)] = task
	r.size++
}

func (r *ring) popBack() (types.Task, bool) {
	if r.size == 0 {
		return nil, false
	}
	idx := (r.head + r.size - 1) % len(r.buf)
	task := r.buf[idx]
	r.buf[idx] = nil
	r.size--
	return task, true
}

func (r *ring) popFront() (types.Task, bool) {
	if r.size == 0 {
		return nil, false
	}
	task := r.buf[r.head]
	r.buf[r.head] = nil
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	if r.size == 0 {
		r.head = 0
	}
	return task, true
}

func (r *ring) grow() {
	capacity := len(r.buf) * 2
	if capacity < minRingCapacity {
		capacity = minRingCapacity
	}
	buf := make([]types.Task, capacity)
	for i := 0; i < r.size; i++ {
		buf[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = buf
	r.head = 0
}
