package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krow6750/gearshare-backend/api/controllers"
	"github.com/krow6750/gearshare-backend/api/routes"
	"github.com/krow6750/gearshare-backend/internal/activity"
	"github.com/krow6750/gearshare-backend/internal/mirror"
	"github.com/krow6750/gearshare-backend/internal/refresh"
	"github.com/krow6750/gearshare-backend/internal/repairs"
	"github.com/krow6750/gearshare-backend/internal/stats"
	"github.com/krow6750/gearshare-backend/pkg/airtable"
	"github.com/krow6750/gearshare-backend/pkg/booqable"
	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/db"
	"github.com/krow6750/gearshare-backend/pkg/firestore"
	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/metrics"
	"github.com/krow6750/gearshare-backend/pkg/migrate"
	"github.com/krow6750/gearshare-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	fsClient, err := firestore.New(context.Background(), cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create firestore client", err)
		os.Exit(1)
	}
	defer func() {
		if err := fsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing firestore", err)
		}
	}()

	repairsSvc := repairs.NewService(sheets, cfg.Airtable, logg)
	templatesSvc := repairs.NewTemplateService(sheets, cfg.Airtable)
	activitySvc := activity.NewService(activity.NewFirestoreStore(fsClient, cfg.Firestore), logg)

	fetcher := refresh.NewFetcher(refresh.FetcherParams{
		Booking: booking,
		Repairs: repairsSvc,
		Mirror:  mirror.NewRepository(dbClient.DB()),
		Metrics: metrics.NewRefreshMetrics(prometheus.DefaultRegisterer),
		Logger:  logg,
		Timeout: cfg.Refresh.FetchTimeout,
	})
	statsSvc := stats.NewService(redisClient, fetcher, cfg.Refresh.SnapshotTTL, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Services{
			Stats:     statsSvc,
			Repairs:   repairsSvc,
			Templates: templatesSvc,
			Activity:  activitySvc,
			Recorder:  activitySvc,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Gatherer: prometheus.DefaultGatherer,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
