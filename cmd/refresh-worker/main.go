package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krow6750/gearshare-backend/internal/mirror"
	"github.com/krow6750/gearshare-backend/internal/refresh"
	"github.com/krow6750/gearshare-backend/internal/repairs"
	"github.com/krow6750/gearshare-backend/internal/stats"
	"github.com/krow6750/gearshare-backend/pkg/airtable"
	"github.com/krow6750/gearshare-backend/pkg/booqable"
	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/db"
	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/metrics"
	"github.com/krow6750/gearshare-backend/pkg/migrate"
	"github.com/krow6750/gearshare-backend/pkg/pubsub"
	"github.com/krow6750/gearshare-backend/pkg/redis"
)

const lockKeyFormat = "stats-refresh:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "refresh-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "refresh-worker"

	logg = logger.New(logger.Options{
		ServiceName: "refresh-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	booking, err := booqable.NewClient(cfg.Booqable)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking client", err)
		os.Exit(1)
	}

	sheets, err := airtable.NewClient(cfg.Airtable)
	if err != nil {
		logg.Error(context.Background(), "failed to create spreadsheet client", err)
		os.Exit(1)
	}

	var publisher refresh.EventPublisher
	if cfg.FeatureFlags.PublishEvents {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create pubsub client", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		if err := psClient.EnsureStatsTopicExists(context.Background()); err != nil {
			logg.Error(context.Background(), "stats topic check failed", err)
			os.Exit(1)
		}
		publisher = psClient
	}

	metricsCollector := metrics.NewRefreshMetrics(prometheus.DefaultRegisterer)

	fetcher := refresh.NewFetcher(refresh.FetcherParams{
		Booking: booking,
		Repairs: repairs.NewService(sheets, cfg.Airtable, logg),
		Mirror:  mirror.NewRepository(dbClient.DB()),
		Metrics: metricsCollector,
		Logger:  logg,
		Timeout: cfg.Refresh.FetchTimeout,
	})
	statsSvc := stats.NewService(redisClient, fetcher, cfg.Refresh.SnapshotTTL, logg)

	lock, err := refresh.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Refresh.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh lock", err)
		os.Exit(1)
	}

	worker, err := refresh.NewWorker(refresh.WorkerParams{
		Logger:   logg,
		Jobs:     []refresh.Job{refresh.NewStatsRefreshJob(fetcher, statsSvc, publisher, logg)},
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Refresh.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting refresh worker")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "refresh worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "refresh worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
