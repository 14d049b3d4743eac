package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task runs every Interval until the runner stops. A failed run is logged
// and retried on the next tick.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Runner struct {
	tasks  []Task
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(tasks ...Task) *Runner {
	return &Runner{tasks: tasks}
}

func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	for _, t := range r.tasks {
		if t.Interval <= 0 {
			slog.Info("periodic task disabled", "task", t.Name)
			continue
		}
		r.wg.Add(1)
		go func(t Task) {
			defer r.wg.Done()
			r.loop(ctx, t)
		}(t)
	}
}

func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, t Task) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("periodic task failed", "task", t.Name, "error", err.Error())
			}
		}
	}
}
