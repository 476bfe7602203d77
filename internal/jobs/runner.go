package jobs

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/wisewolf/educore-backend/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
}

func New(ctx context.Context) *Runner { return &Runner{ctx: ctx} }

// Every runs fn on a fixed interval with optional jitter until the runner's
// context is cancelled. Panics are captured, not fatal.
func (r *Runner) Every(interval, jitter time.Duration, name string, fn Job) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				if jitter > 0 {
					time.Sleep(time.Duration(rand.Int63n(int64(jitter))))
				}
				start := time.Now()
				if err := safeRun(r.ctx, name, fn); err != nil {
					jobErrors.WithLabelValues(name).Inc()
				}
				jobRuns.WithLabelValues(name).Inc()
				jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			}
		}
	}()
}

func safeRun(ctx context.Context, name string, fn Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in job %s: %v", name, r)
			observability.CaptureErr(err)
		}
	}()
	return fn(ctx)
}
