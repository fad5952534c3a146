package retry

import (
	"fmt"
	"runtime"
	"time"

	"github.com/jzx17/gosched/pkg/queue"
	"github.com/jzx17/gosched/pkg/types"
)

// DefaultMaxAttempts is the number of steal attempts made against a contended
// queue before falling through
const DefaultMaxAttempts = 4

// ContentionPolicy bounds the retries spent on a contended queue
type ContentionPolicy struct {
	// MaxAttempts is the total number of steal attempts, including the first
	MaxAttempts int

	// Backoff spaces consecutive attempts. Nil or a zero delay yields the
	// processor instead of sleeping.
	Backoff BackoffStrategy

	// Clock for backoff sleeps (optional, defaults to the real clock)
	Clock types.Clock
}

var realClock = types.NewRealClock()

// DefaultContentionPolicy returns the policy used when none is configured
func DefaultContentionPolicy() ContentionPolicy {
	return ContentionPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     NewFixedBackoff(0),
	}
}

// Validate checks the policy for out of range values
func (p ContentionPolicy) Validate() error {
	if p.MaxAttempts < 0 {
		return fmt.Errorf("%w: steal attempts must not be negative, got %d",
			types.ErrInvalidConfig, p.MaxAttempts)
	}
	return nil
}

// WithClock returns a copy of the policy that sleeps on clock
func (p ContentionPolicy) WithClock(clock types.Clock) ContentionPolicy {
	p.Clock = clock
	return p
}

// attempts returns the effective attempt budget
func (p ContentionPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// Steal attempts to take a task from src, retrying StealRetry outcomes until
// the attempt budget runs out. The returned Steal is StealRetry only when every
// attempt was contended.
func (p ContentionPolicy) Steal(src queue.Source) (types.Task, queue.Steal) {
	budget := p.attempts()
	for attempt := 1; ; attempt++ {
		task, res := src.Steal()
		if res != queue.StealRetry || attempt >= budget {
			return task, res
		}
		p.pause(attempt)
	}
}

func (p ContentionPolicy) pause(attempt int) {
	var delay time.Duration
	if p.Backoff != nil {
		delay = p.Backoff.NextDelay(attempt)
	}
	if delay <= 0 {
		runtime.Gosched()
		return
	}
	clock := p.Clock
	if clock == nil {
		clock = realClock
	}
	clock.Sleep(delay)
}
