// Package types defines the core interfaces and value types shared by the
// scheduler packages
package types

import (
	"time"
)

// Task is a unit of work that the scheduler runs exactly once.
//
// A Task owns everything it captures. Once handed to Spawn, the scheduler owns
// the Task and calls Run a single time on whichever worker claims it.
type Task interface {
	Run()
}

// TaskFunc adapts an ordinary function to the Task interface
type TaskFunc func()

// Run calls f()
func (f TaskFunc) Run() {
	f()
}

// Scheduler defines the spawn surface of a runtime
type Scheduler interface {
	// Spawn schedules task for eventual one-time execution
	Spawn(task Task) error

	// Workers returns the fixed number of workers
	Workers() int

	// Stats returns runtime statistics
	Stats() RuntimeStats
}

// WorkerState defines the state of a worker
type WorkerState int32

const (
	// WorkerStateIdle represents a worker searching for work
	WorkerStateIdle WorkerState = iota
	// WorkerStateWorking represents a worker running a task
	WorkerStateWorking
	// WorkerStateParked represents a worker asleep on the notifier
	WorkerStateParked
	// WorkerStateStopped represents a worker that has exited its loop
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateWorking:
		return "working"
	case WorkerStateParked:
		return "parked"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// WorkerStats defines per-worker statistics
type WorkerStats struct {
	ID    int
	State WorkerState

	// Executed is the number of tasks run to completion or panic
	Executed int64

	// FromLocal, FromInjector and Stolen split Executed by work source
	FromLocal    int64
	FromInjector int64
	Stolen       int64

	// Panicked is the number of tasks whose Run panicked
	Panicked int64

	// Parks is the number of times the worker went to sleep
	Parks int64

	// LocalQueued is the current length of the worker's own deque
	LocalQueued int

	LastTaskTime time.Time
}

// IsActive checks if the worker is running a task
func (ws WorkerStats) IsActive() bool {
	return ws.State == WorkerStateWorking
}

// IsParked checks if the worker is asleep
func (ws WorkerStats) IsParked() bool {
	return ws.State == WorkerStateParked
}

// RuntimeStats defines aggregate runtime statistics
type RuntimeStats struct {
	// Workers is the fixed size of the worker pool
	Workers int

	// LiveWorkers is the number of workers whose loop is running
	LiveWorkers int

	// ActiveWorkers is the number of workers running a task
	ActiveWorkers int

	// ParkedWorkers is the number of workers asleep on the notifier
	ParkedWorkers int

	// InjectorQueued is the number of tasks waiting in the injector
	InjectorQueued int

	// LocalQueued is the sum of all worker deque lengths
	LocalQueued int

	// Spawned is the number of tasks accepted by Spawn or Local.Spawn
	Spawned int64

	// Executed is the number of tasks claimed and run
	Executed int64

	// Stolen is the number of tasks taken from peer deques
	Stolen int64

	// Panicked is the number of tasks whose Run panicked
	Panicked int64
}

// Pending returns the number of tasks accepted but not yet claimed
func (s RuntimeStats) Pending() int {
	return s.InjectorQueued + s.LocalQueued
}
