package scheduler

import (
	"sync"
)

// parkResult is the outcome of notifier.park
type parkResult int

const (
	// parkFoundWork means the re-check under the lock found work
	parkFoundWork parkResult = iota
	// parkWoken means the worker slept and was woken
	parkWoken
	// parkClosed means there is no work left and the runtime is closing
	parkClosed
)

// notifier is the wake channel for idle workers. Its lock guards only the
// sleeper count and the closed flag, never task data.
type notifier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	sleepers int
	closed   bool
}

func newNotifier() *notifier {
	n := &notifier{}
	n.cond = sync.NewCond(&n.mu)
	return n
}

// park puts the calling worker to sleep until woken.
//
// hasWork is evaluated while holding the lock that wakeOne acquires before
// signalling. A producer publishes its task before calling wakeOne, so either
// hasWork observes the task or the worker is already waiting when the signal
// is sent. Work that arrives between a worker's last look and its sleep is
// never missed.
func (n *notifier) park(hasWork func() bool) parkResult {
	n.mu.Lock()
	defer n.mu.Unlock()

	if hasWork() {
		return parkFoundWork
	}
	if n.closed {
		return parkClosed
	}

	n.sleepers++
	n.cond.Wait()
	n.sleepers--
	return parkWoken
}

// wakeOne wakes at most one parked worker. The signal is not remembered when
// nobody is parked.
func (n *notifier) wakeOne() {
	n.mu.Lock()
	if n.sleepers > 0 {
		n.cond.Signal()
	}
	n.mu.Unlock()
}

// close marks the notifier closed and wakes every parked worker
func (n *notifier) close() {
	n.mu.Lock()
	n.closed = true
	n.cond.Broadcast()
	n.mu.Unlock()
}

// parked returns the number of workers currently asleep
func (n *notifier) parked() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sleepers
}
