package main

import (
	"context"
	"fmt"
	"log"

	"github.com/dtroode/library-server/internal/api/http/handler"
	"github.com/dtroode/library-server/internal/config"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/repository/memory"
	"github.com/dtroode/library-server/internal/repository/postgres"
)

// storeHandle is an opened store together with its health probe and cleanup.
type storeHandle struct {
	store  model.Store
	pinger handler.Pinger
	close  func()
}

func loadConfig() (*config.Config, *logger.Logger) {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat)
}

func openStore(ctx context.Context, cfg config.Database, logger *logger.Logger) (*storeHandle, error) {
	if cfg.Driver == "memory" {
		logger.Warn("using in-memory store, data is lost on exit")
		return &storeHandle{store: memory.NewStore(), close: func() {}}, nil
	}

	opts := postgres.PoolOptions{
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	}

	conn, err := postgres.NewConnection(ctx, cfg.DSN, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	reportDB, err := postgres.NewReportDB(ctx, cfg.DSN, opts)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize report database: %w", err)
	}

	return &storeHandle{
		store:  postgres.NewStore(conn, reportDB),
		pinger: conn,
		close: func() {
			if err := reportDB.Close(); err != nil {
				logger.Error("failed to close report database", "error", err)
			}
			if err := conn.Close(); err != nil {
				logger.Error("failed to close database connection", "error", err)
			}
		},
	}, nil
}
