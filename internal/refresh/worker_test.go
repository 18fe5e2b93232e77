package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/krow6750/gearshare-backend/internal/stats"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

type fakeLock struct {
	available bool
	acquired  int
	released  int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquired++
	return f.available, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.released++
	return nil
}

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func testWorkerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "worker-test", Level: logger.ParseLevel("error")})
}

func TestNewWorkerValidation(t *testing.T) {
	_, err := NewWorker(WorkerParams{Logger: testWorkerLogger(), Lock: &fakeLock{}})
	if err == nil {
		t.Fatal("expected error without jobs")
	}
	_, err = NewWorker(WorkerParams{Logger: testWorkerLogger(), Jobs: []Job{&countingJob{name: "j"}}})
	if err == nil {
		t.Fatal("expected error without lock")
	}
}

func TestWorkerRunsImmediatelyThenStops(t *testing.T) {
	lock := &fakeLock{available: true}
	job := &countingJob{name: "stats_refresh"}
	worker, err := NewWorker(WorkerParams{
		Logger:   testWorkerLogger(),
		Jobs:     []Job{job},
		Lock:     lock,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for job.runs == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if lock.released == 0 {
		t.Fatal("expected lock released after cycle")
	}
}

func TestWorkerSkipsCycleWhenLocked(t *testing.T) {
	lock := &fakeLock{available: false}
	job := &countingJob{name: "stats_refresh"}
	worker, err := NewWorker(WorkerParams{
		Logger:   testWorkerLogger(),
		Jobs:     []Job{job},
		Lock:     lock,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := worker.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped, ran %d times", job.runs)
	}
	if lock.released != 0 {
		t.Fatal("lock should not be released when never held")
	}
}

type fakeBuilder struct {
	snap stats.Snapshot
	err  error
}

func (f *fakeBuilder) BuildSnapshot(context.Context) (stats.Snapshot, error) {
	return f.snap, f.err
}

type fakeSink struct {
	stored []stats.Snapshot
	err    error
}

func (f *fakeSink) Store(_ context.Context, snap stats.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, snap)
	return nil
}

type fakePublisher struct {
	events []any
	err    error
}

func (f *fakePublisher) PublishStatsRefreshed(_ context.Context, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, payload)
	return nil
}

func TestStatsRefreshJob(t *testing.T) {
	builder := &fakeBuilder{snap: stats.Snapshot{TotalRentals: 3, ActiveRepairs: 2, GeneratedAt: time.Now().UTC()}}
	sink := &fakeSink{}
	publisher := &fakePublisher{}
	job := NewStatsRefreshJob(builder, sink, publisher, testWorkerLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.stored) != 1 {
		t.Fatalf("expected snapshot stored, got %d", len(sink.stored))
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected event published, got %d", len(publisher.events))
	}
	event, ok := publisher.events[0].(StatsRefreshedEvent)
	if !ok || event.TotalRentals != 3 {
		t.Fatalf("unexpected event %+v", publisher.events[0])
	}
}

func TestStatsRefreshJobPublishFailureNotFatal(t *testing.T) {
	builder := &fakeBuilder{snap: stats.Snapshot{}}
	sink := &fakeSink{}
	publisher := &fakePublisher{err: errors.New("broker down")}
	job := NewStatsRefreshJob(builder, sink, publisher, testWorkerLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("publish failure should not fail the job: %v", err)
	}
	if len(sink.stored) != 1 {
		t.Fatal("expected snapshot still stored")
	}
}

func TestStatsRefreshJobBuildFailure(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("sources down")}
	job := NewStatsRefreshJob(builder, &fakeSink{}, &fakePublisher{}, testWorkerLogger())

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected build error surfaced")
	}
}
