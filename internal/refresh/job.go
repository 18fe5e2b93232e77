package refresh

import (
	"context"
	"time"

	"github.com/krow6750/gearshare-backend/internal/stats"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

// Job is one unit of scheduled work run by the worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// SnapshotBuilder builds a fresh snapshot from the upstream sources.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context) (stats.Snapshot, error)
}

// SnapshotSink stores a computed snapshot for the read path.
type SnapshotSink interface {
	Store(ctx context.Context, snap stats.Snapshot) error
}

// EventPublisher announces a completed refresh to downstream consumers.
type EventPublisher interface {
	PublishStatsRefreshed(ctx context.Context, payload any) error
}

// StatsRefreshedEvent is the published payload of a completed refresh.
type StatsRefreshedEvent struct {
	GeneratedAt   time.Time `json:"generated_at"`
	TotalRentals  int       `json:"total_rentals"`
	ActiveRepairs int       `json:"active_repairs"`
}

// StatsRefreshJob rebuilds the dashboard snapshot and caches it. Publish
// failures are logged, not fatal: the snapshot is already live.
type StatsRefreshJob struct {
	builder   SnapshotBuilder
	sink      SnapshotSink
	publisher EventPublisher
	logg      *logger.Logger
}

func NewStatsRefreshJob(builder SnapshotBuilder, sink SnapshotSink, publisher EventPublisher, logg *logger.Logger) *StatsRefreshJob {
	return &StatsRefreshJob{
		builder:   builder,
		sink:      sink,
		publisher: publisher,
		logg:      logg,
	}
}

func (j *StatsRefreshJob) Name() string {
	return "stats_refresh"
}

func (j *StatsRefreshJob) Run(ctx context.Context) error {
	snap, err := j.builder.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := j.sink.Store(ctx, snap); err != nil {
		return err
	}

	if j.publisher != nil {
		event := StatsRefreshedEvent{
			GeneratedAt:   snap.GeneratedAt,
			TotalRentals:  snap.TotalRentals,
			ActiveRepairs: snap.ActiveRepairs,
		}
		if err := j.publisher.PublishStatsRefreshed(ctx, event); err != nil {
			logCtx := j.logg.WithField(ctx, "error", err.Error())
			j.logg.Warn(logCtx, "stats refresh event not published")
		}
	}
	return nil
}
