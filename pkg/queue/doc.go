/*
Package queue provides the two task containers used by the work-stealing
scheduler.

# Injector

Injector is the global entry queue. It is unbounded, FIFO, and safe for any
number of concurrent producers and consumers. Consumers call Steal, which never
blocks: when another goroutine holds the queue, Steal reports StealRetry and the
caller decides whether to try again or look elsewhere.

# Deque and Stealer

Deque is a worker-owned double-ended queue. Only the owner calls Push and Pop,
which work on the back of the queue, so the owner sees its most recent work
first. Peers hold a Stealer obtained from Deque.Stealer and take from the front,
oldest first. Many stealers may race with each other and with the owner.

	local := queue.NewDeque()
	thief := local.Stealer()

	local.Push(types.TaskFunc(func() {}))
	if task, res := thief.Steal(); res == queue.StealSuccess {
		task.Run()
	}

Both containers grow on demand and never reject a push.
*/
package queue
