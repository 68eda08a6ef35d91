package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"leadmanager/internal/config"
	"leadmanager/internal/database"
	"leadmanager/internal/domain/lead"
	"leadmanager/internal/logger"
	"leadmanager/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Errorw("api stopped", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	db, err := database.ConnectWithOptions(cfg.Database.DSN, database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Strict:          cfg.Database.Strict,
		Silent:          cfg.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("close database", "error", err)
		}
		log.Infow("database connection closed")
	}()

	if err := lead.Migrate(db); err != nil {
		if cfg.Database.Strict {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Warnw("migration skipped, database unavailable", "error", err)
	}

	router := server.NewRouter(cfg, db, log)
	srv := server.New(cfg.HTTP, router, log)

	log.Infow("lead api starting", "env", cfg.App.Env, "addr", cfg.HTTP.ListenAddr)
	return srv.Run(context.Background())
}
