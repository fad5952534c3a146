package queue

import (
	"github.com/jzx17/gosched/pkg/types"
)

// Steal is the outcome of a steal attempt
type Steal int

const (
	// StealEmpty means the queue had nothing to take
	StealEmpty Steal = iota
	// StealSuccess means a task was taken
	StealSuccess
	// StealRetry means the queue was contended and the attempt gave up
	StealRetry
)

// String returns the string representation of Steal
func (s Steal) String() string {
	switch s {
	case StealEmpty:
		return "empty"
	case StealSuccess:
		return "success"
	case StealRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// IsRetry reports whether the attempt should be retried
func (s Steal) IsRetry() bool {
	return s == StealRetry
}

// Source is anything a worker can steal from
type Source interface {
	Steal() (types.Task, Steal)
	IsEmpty() bool
}
