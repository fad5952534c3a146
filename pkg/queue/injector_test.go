package queue

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/gosched/pkg/types"
)

func TestInjector_FIFO(t *testing.T) {
	q := NewInjector()
	assert.True(t, q.IsEmpty())

	for i := 0; i < 50; i++ {
		q.Push(valueTask(i))
	}
	assert.Equal(t, 50, q.Len())

	for i := 0; i < 50; i++ {
		task, res := q.Steal()
		require.Equal(t, StealSuccess, res)
		assert.Equal(t, valueTask(i), task)
	}

	task, res := q.Steal()
	assert.Nil(t, task)
	assert.Equal(t, StealEmpty, res)
	assert.True(t, q.IsEmpty())
}

func TestInjector_StealRetryWhenContended(t *testing.T) {
	q := NewInjector()
	q.Push(valueTask(1))

	q.mu.Lock()
	task, res := q.Steal()
	q.mu.Unlock()

	assert.Nil(t, task)
	assert.Equal(t, StealRetry, res)

	// the task is still there once the lock is released
	task, res = q.Steal()
	assert.Equal(t, StealSuccess, res)
	assert.Equal(t, valueTask(1), task)
}

func TestInjector_ConcurrentProducersConsumers(t *testing.T) {
	q := NewInjector()

	const producers = 8
	const perProducer = 2000
	const total = producers * perProducer

	seen := make([]int32, total)
	var taken int64

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(valueTask(p*perProducer + i))
			}
		}(p)
	}

	var cwg sync.WaitGroup
	for c := 0; c < 4; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for atomic.LoadInt64(&taken) < total {
				task, res := q.Steal()
				if res != StealSuccess {
					continue
				}
				atomic.AddInt32(&seen[int(task.(valueTask))], 1)
				atomic.AddInt64(&taken, 1)
			}
		}()
	}

	wg.Wait()
	cwg.Wait()

	for i, n := range seen {
		if n != 1 {
			t.Fatalf("task %d taken %d times", i, n)
		}
	}
	assert.True(t, q.IsEmpty())
}

func TestInjector_ImplementsSource(t *testing.T) {
	var _ Source = NewInjector()
	var _ Source = NewDeque().Stealer()
	var _ types.Task = types.TaskFunc(nil)
}
