package types

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskFunc(t *testing.T) {
	calls := 0
	var task Task = TaskFunc(func() { calls++ })

	task.Run()
	assert.Equal(t, 1, calls)
}

func TestWorkerStateString(t *testing.T) {
	assert.Equal(t, "idle", WorkerStateIdle.String())
	assert.Equal(t, "working", WorkerStateWorking.String())
	assert.Equal(t, "parked", WorkerStateParked.String())
	assert.Equal(t, "stopped", WorkerStateStopped.String())
	assert.Equal(t, "unknown", WorkerState(99).String())
}

func TestWorkerStatsPredicates(t *testing.T) {
	assert.True(t, WorkerStats{State: WorkerStateWorking}.IsActive())
	assert.False(t, WorkerStats{State: WorkerStateIdle}.IsActive())
	assert.True(t, WorkerStats{State: WorkerStateParked}.IsParked())
}

func TestRuntimeStatsPending(t *testing.T) {
	s := RuntimeStats{InjectorQueued: 3, LocalQueued: 4}
	assert.Equal(t, 7, s.Pending())
}

func TestClockFromContext(t *testing.T) {
	_, ok := ClockFromContext(context.Background()).(*RealClock)
	assert.True(t, ok)

	custom := &RealClock{}
	ctx := WithClock(context.Background(), custom)
	assert.Same(t, custom, ClockFromContext(ctx))

	//nolint:staticcheck
	_, ok = ClockFromContext(nil).(*RealClock)
	assert.True(t, ok)
}

func TestRealClock(t *testing.T) {
	clock := NewRealClock()
	start := clock.Now()

	timer := clock.NewTimer(time.Millisecond)
	<-timer.C()
	assert.False(t, timer.Stop())

	clock.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, clock.Since(start), 2*time.Millisecond)
}
