/*
Package scheduler provides a work-stealing task runtime that multiplexes many
small tasks onto a fixed pool of worker goroutines.

# Overview

A Runtime owns:
- One Injector, the global FIFO entry queue for spawned tasks
- One Deque per worker, with a Stealer handle shared with every peer
- A notifier that idle workers sleep on
- N workers, fixed at construction

# Worker Loop

Each worker picks its next task by strict priority and starts over from the
top after every task:

 1. Pop from its own deque (most recently pushed first)
 2. Steal from the injector
 3. Steal from peers' deques in index order, starting after its own slot
 4. Park on the notifier until woken

A contended steal is transient. It is retried within the bounds of
Config.Contention and then the worker moves on to the next source.

Tasks run synchronously to completion. A panicking task is recovered,
reported to Config.FaultHandler and counted; the worker keeps running.

# Parking

Wake signals are not buffered. Before sleeping, a worker re-checks every
source while holding the notifier lock, and Spawn takes the same lock before
signalling. A task published between a worker's last search and its sleep is
therefore always seen.

# Usage Examples

Basic usage:

	rt, err := scheduler.New(&scheduler.Config{Workers: 4})
	if err != nil {
		log.Fatal(err)
	}
	if err := rt.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	defer rt.Shutdown(context.Background())

	results := make(chan int, 10)
	for i := 0; i < 10; i++ {
		i := i
		rt.SpawnFunc(func() { results <- i })
	}

Fan-out onto the current worker's deque:

	rt.SpawnLocal(func(l *scheduler.Local) {
		for _, chunk := range chunks {
			chunk := chunk
			l.SpawnFunc(func() { process(chunk) })
		}
	})

# Configuration Options

Config supports:
- Workers: worker count, defaults to runtime.GOMAXPROCS(0)
- LockOSThread: pin each worker to an OS thread
- Contention: retry budget and backoff for contended steals
- ShutdownTimeout: upper bound on Shutdown's drain
- Clock, Logger, FaultHandler

FileConfig holds the same settings in YAML form.
*/
package scheduler
