package retry

import (
	"testing"
	"time"
)

func TestFixedBackoff(t *testing.T) {
	delay := 100 * time.Microsecond
	backoff := NewFixedBackoff(delay)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, delay},
		{2, delay},
		{3, delay},
		{10, delay},
	}

	for _, tt := range tests {
		got := backoff.NextDelay(tt.attempt)
		if got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := NewExponentialBackoff(time.Microsecond,
		WithBackoffMultiplier(2.0),
		WithBackoffMaxDelay(10*time.Microsecond))

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Microsecond},
		{2, 2 * time.Microsecond},
		{3, 4 * time.Microsecond},
		{4, 8 * time.Microsecond},
		{5, 10 * time.Microsecond},  // Limited by max delay
		{200, 10 * time.Microsecond}, // overflow clamps to max delay
	}

	for _, tt := range tests {
		got := backoff.NextDelay(tt.attempt)
		if got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialBackoff_ZeroAndNegativeAttempts(t *testing.T) {
	backoff := NewExponentialBackoff(3 * time.Microsecond)

	delay0 := backoff.NextDelay(0)
	delay1 := backoff.NextDelay(1)
	delayNeg := backoff.NextDelay(-1)

	if delay0 != delay1 || delay1 != delayNeg {
		t.Errorf("Zero/negative attempts handling: %v, %v, %v", delay0, delay1, delayNeg)
	}
}

func TestJitterFunctions(t *testing.T) {
	delay := 1000 * time.Microsecond

	for i := 0; i < 100; i++ {
		jittered := FullJitter(delay)
		if jittered < 0 || jittered > delay {
			t.Errorf("FullJitter result %v out of range [0, %v]", jittered, delay)
		}
	}

	half := delay / 2
	for i := 0; i < 100; i++ {
		jittered := EqualJitter(delay)
		if jittered < half || jittered > delay {
			t.Errorf("EqualJitter result %v out of range [%v, %v]", jittered, half, delay)
		}
	}
}

func TestJitterWithTinyDelay(t *testing.T) {
	if FullJitter(0) != 0 {
		t.Error("FullJitter with zero delay should return 0")
	}
	if EqualJitter(0) != 0 {
		t.Error("EqualJitter with zero delay should return 0")
	}
	if EqualJitter(1) != 1 {
		t.Error("EqualJitter with 1ns delay should return it unchanged")
	}
}

func TestBackoffStrategyOptions(t *testing.T) {
	t.Run("FixedBackoff with jitter", func(t *testing.T) {
		delay := 100 * time.Microsecond
		backoff := NewFixedBackoff(delay, WithBackoffJitter(EqualJitter))

		results := make(map[time.Duration]bool)
		for i := 0; i < 50; i++ {
			result := backoff.NextDelay(1)
			results[result] = true

			if result < delay/2 || result > delay {
				t.Errorf("Jittered delay %v out of expected range [%v, %v]", result, delay/2, delay)
			}
		}

		if len(results) < 2 {
			t.Error("Jitter should produce varying results")
		}
	})

	t.Run("ExponentialBackoff with custom multiplier", func(t *testing.T) {
		initialDelay := 100 * time.Microsecond
		backoff := NewExponentialBackoff(initialDelay, WithBackoffMultiplier(1.5))

		expected := time.Duration(float64(initialDelay) * 1.5)
		if got := backoff.NextDelay(2); got != expected {
			t.Errorf("Custom multiplier: expected %v, got %v", expected, got)
		}
	})
}
