// Command schedbench floods a work-stealing runtime with tasks and reports how
// the workers shared them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jzx17/gosched/pkg/scheduler"
)

type options struct {
	configPath string
	tasks      int
	spawners   int
	workers    int
	fanout     int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML runtime config")
	flag.IntVar(&opts.tasks, "tasks", 100000, "number of root tasks to spawn")
	flag.IntVar(&opts.spawners, "spawners", 4, "number of goroutines spawning root tasks")
	flag.IntVar(&opts.workers, "workers", 0, "worker count, overrides the config file (0 keeps it)")
	flag.IntVar(&opts.fanout, "fanout", 0, "children each root task pushes onto its worker's deque")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := run(opts, logger); err != nil {
		logger.Error().Err(err).Msg("schedbench failed")
		os.Exit(1)
	}
}

func run(opts options, logger zerolog.Logger) error {
	if opts.tasks < 0 || opts.spawners <= 0 || opts.fanout < 0 {
		return fmt.Errorf("tasks and fanout must not be negative and spawners must be positive")
	}

	cfg := scheduler.DefaultConfig()
	cfg.Logger = &logger
	if opts.configPath != "" {
		fc, err := scheduler.LoadFileConfig(opts.configPath)
		if err != nil {
			return err
		}
		if err := fc.Apply(cfg); err != nil {
			return err
		}
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	logger = *cfg.Logger

	rt, err := scheduler.New(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := rt.Start(ctx); err != nil {
		return err
	}

	total := opts.tasks * (opts.fanout + 1)
	var wg sync.WaitGroup
	wg.Add(total)

	start := time.Now()
	if err := storm(rt, opts, &wg); err != nil {
		return err
	}
	wg.Wait()
	elapsed := time.Since(start)

	stats := rt.Stats()
	logger.Info().
		Int("workers", stats.Workers).
		Int("tasks", total).
		Dur("elapsed", elapsed).
		Float64("tasks_per_sec", float64(total)/elapsed.Seconds()).
		Int64("stolen", stats.Stolen).
		Int64("panicked", stats.Panicked).
		Msg("storm finished")

	for _, ws := range rt.WorkerStats() {
		logger.Debug().
			Int("worker_id", ws.ID).
			Int64("executed", ws.Executed).
			Int64("from_local", ws.FromLocal).
			Int64("from_injector", ws.FromInjector).
			Int64("stolen", ws.Stolen).
			Int64("parks", ws.Parks).
			Msg("worker stats")
	}

	return rt.Shutdown(ctx)
}

// storm spawns opts.tasks root tasks from opts.spawners goroutines
func storm(rt *scheduler.Runtime, opts options, wg *sync.WaitGroup) error {
	errs := make(chan error, opts.spawners)
	var spawners sync.WaitGroup

	per := opts.tasks / opts.spawners
	extra := opts.tasks % opts.spawners
	for s := 0; s < opts.spawners; s++ {
		n := per
		if s < extra {
			n++
		}
		spawners.Add(1)
		go func(n int) {
			defer spawners.Done()
			for i := 0; i < n; i++ {
				if err := rt.SpawnLocal(func(l *scheduler.Local) {
					defer wg.Done()
					for k := 0; k < opts.fanout; k++ {
						if err := l.SpawnFunc(wg.Done); err != nil {
							wg.Done()
						}
					}
				}); err != nil {
					errs <- err
					return
				}
			}
		}(n)
	}

	spawners.Wait()
	close(errs)
	return <-errs
}
