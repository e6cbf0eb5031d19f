package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/greenbasket/greenbasket-backend/pkg/config"
	"github.com/greenbasket/greenbasket-backend/pkg/db"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/migrate"
)

func main() {
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "greenbasket-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})
	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to get sql handle", err)
		os.Exit(1)
	}

	var extra []string
	if flag.NArg() > 1 {
		extra = flag.Args()[1:]
	}
	if err := migrate.Run(ctx, sqlDB, *dir, command, extra...); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	version, err := migrate.Version(sqlDB)
	if err != nil {
		logg.Error(ctx, "failed to read migration version", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "version", version), "migrations applied")
}
