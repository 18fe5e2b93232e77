package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

// WorkerParams configure the refresh worker.
type WorkerParams struct {
	Logger   *logger.Logger
	Jobs     []Job
	Lock     Lock
	Metrics  *metrics.RefreshMetrics
	Interval time.Duration
}

// Worker executes refresh jobs on a fixed cadence. A Redis lock keeps
// exactly one instance refreshing at a time.
type Worker struct {
	logg     *logger.Logger
	jobs     []Job
	lock     Lock
	metrics  *metrics.RefreshMetrics
	interval time.Duration
}

// NewWorker builds a refresh worker.
func NewWorker(params WorkerParams) (*Worker, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	if len(params.Jobs) == 0 {
		return nil, fmt.Errorf("at least one job required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		logg:     params.Logger,
		jobs:     params.Jobs,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run starts the refresh loop until the context is canceled. The first
// cycle runs immediately so a fresh deploy does not wait a full interval.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := w.runCycle(ctx); err != nil {
		w.logg.Error(ctx, "refresh run failed", err)
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logg.Info(ctx, "refresh worker context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := w.runCycle(ctx); err != nil {
				w.logg.Error(ctx, "refresh run failed", err)
			}
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) error {
	locked, err := w.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		w.logg.Info(ctx, "another refresh instance is running; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := w.lock.Release(ctx); relErr != nil {
			w.logg.Error(ctx, "failed to release refresh lock", relErr)
		}
	}()

	for _, job := range w.jobs {
		w.runJob(ctx, job)
	}
	return nil
}

func (w *Worker) runJob(ctx context.Context, job Job) {
	jobCtx := w.logg.WithJob(ctx, job.Name())
	w.logg.Info(jobCtx, "job start")
	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)
	w.observeDuration(job.Name(), duration)
	jobCtx = w.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		w.logg.Error(jobCtx, "job failed", err)
		w.recordFailure(job.Name())
		return
	}
	w.logg.Info(jobCtx, "job completed")
	w.recordSuccess(job.Name())
}

func (w *Worker) observeDuration(job string, duration time.Duration) {
	if w.metrics == nil {
		return
	}
	w.metrics.ObserveDuration(job, duration)
}

func (w *Worker) recordSuccess(job string) {
	if w.metrics == nil {
		return
	}
	w.metrics.IncSuccess(job)
}

func (w *Worker) recordFailure(job string) {
	if w.metrics == nil {
		return
	}
	w.metrics.IncFailure(job)
}
