// Package retry bounds how hard a worker fights over a contended queue.
//
// A steal attempt that finds its queue locked by another goroutine reports
// queue.StealRetry. That outcome is transient, so a worker may try again, but
// it must never spin forever on contention alone. ContentionPolicy caps the
// number of attempts and spaces them with a BackoffStrategy:
//
//	policy := retry.ContentionPolicy{
//		MaxAttempts: 4,
//		Backoff: retry.NewExponentialBackoff(time.Microsecond,
//			retry.WithBackoffMaxDelay(50*time.Microsecond),
//			retry.WithBackoffJitter(retry.EqualJitter)),
//	}
//
//	task, res := policy.Steal(injector)
//
// A zero delay yields the processor with runtime.Gosched instead of sleeping.
package retry
