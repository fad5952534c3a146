// Package testutils provides helpers for exercising schedulers in tests
package testutils

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Recorder counts how many times each numbered task ran
type Recorder struct {
	counts []int32
	total  int64
}

// NewRecorder creates a recorder for task ids in [0, n)
func NewRecorder(n int) *Recorder {
	return &Recorder{counts: make([]int32, n)}
}

// Record notes one execution of task id
func (r *Recorder) Record(id int) {
	atomic.AddInt32(&r.counts[id], 1)
	atomic.AddInt64(&r.total, 1)
}

// Total returns the number of executions recorded so far
func (r *Recorder) Total() int64 {
	return atomic.LoadInt64(&r.total)
}

// WaitTotal waits until at least n executions were recorded
func (r *Recorder) WaitTotal(t testing.TB, n int64, timeout time.Duration) bool {
	return assert.Eventually(t, func() bool { return r.Total() >= n }, timeout, time.Millisecond,
		"expected %d executions", n)
}

// AssertExactlyOnce fails the test unless every id ran exactly one time
func (r *Recorder) AssertExactlyOnce(t testing.TB) bool {
	ok := true
	for id := range r.counts {
		if n := atomic.LoadInt32(&r.counts[id]); n != 1 {
			ok = false
			t.Errorf("task %d ran %d times, want 1", id, n)
		}
	}
	return ok
}

// Collector gathers values sent by tasks
type Collector struct {
	mu     sync.Mutex
	values []int
}

// Add appends v
func (c *Collector) Add(v int) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
}

// Len returns the number of collected values
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Sorted returns a sorted copy of the collected values
func (c *Collector) Sorted() []int {
	c.mu.Lock()
	out := append([]int(nil), c.values...)
	c.mu.Unlock()
	sort.Ints(out)
	return out
}

// Seq returns [0, 1, ..., n-1]
func Seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
