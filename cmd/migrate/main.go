package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/db"
	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/migrate"
)

func main() {
	dir := flag.String("dir", migrate.DefaultDir, "directory with migration files")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	command := args[0]

	logg := logger.New(logger.Options{ServiceName: "migrate"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

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

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(context.Background(), "failed to unwrap sql connection", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"command": command,
		"dir":     *dir,
	})
	if err := migrate.Run(ctx, sqlDB, cfg.DB.Driver, *dir, command, args[1:]...); err != nil {
		logg.Error(ctx, "migration command failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration command completed")
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command> [args]

Commands:
  up                   apply all pending migrations
  up-to VERSION        apply migrations up to VERSION
  down                 roll back the most recent migration
  down-to VERSION      roll back migrations down to VERSION
  status               print migration status
  version              print the current migration version
  create NAME sql      create a new SQL migration file

Flags:
`)
	flag.PrintDefaults()
}
