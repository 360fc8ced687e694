package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// Runner runs its tasks one after another, then waits interval before the
// next round. A failing or panicking task never stops the other tasks.
type Runner struct {
	interval time.Duration
	tasks    []Task
}

func NewRunner(interval time.Duration, tasks ...Task) *Runner {
	return &Runner{
		interval: interval,
		tasks:    tasks,
	}
}

// Run 立即执行一轮, 之后每轮结束后等待 interval, 直到 ctx 取消
func (r *Runner) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			r.RunOnce(ctx)
			timer.Reset(r.interval)
		}
	}
}

// RunOnce runs every task a single time.
func (r *Runner) RunOnce(ctx context.Context) {
	for _, task := range r.tasks {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := r.runTask(ctx, task); err != nil {
			slog.Error("task failed", "task", task.Name(), "elapsed", time.Since(start), "error", err)
			continue
		}
		slog.Debug("task finished", "task", task.Name(), "elapsed", time.Since(start))
	}
}

func (r *Runner) runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("task panicked", "task", task.Name(), "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("task %s panicked: %v", task.Name(), rec)
		}
	}()
	return task.Run(ctx)
}
