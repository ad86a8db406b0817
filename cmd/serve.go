package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	httpctx "github.com/dtroode/library-server/internal/api/http/context"
	"github.com/dtroode/library-server/internal/api/http/middleware"
	"github.com/dtroode/library-server/internal/api/http/router"
	"github.com/dtroode/library-server/internal/clock"
	"github.com/dtroode/library-server/internal/logger"
	"github.com/dtroode/library-server/internal/model"
	"github.com/dtroode/library-server/internal/server"
	"github.com/dtroode/library-server/internal/service"
	storage "github.com/dtroode/library-server/internal/storage/minio"
	"github.com/dtroode/library-server/internal/token"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger := loadConfig()

	loc, err := cfg.Lending.Location()
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return err
	}
	defer db.close()

	clk := clock.NewSystem(loc)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	var reportStorage model.Storage
	if cfg.Storage.Enabled {
		storageClient, err := storage.New(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Error("failed to initialize storage client", "error", err)
			return err
		}
		reportStorage = storageClient
	}

	authService := service.NewAuth(db.store.Users(), tokenManager, logger, cfg.Auth.AllowLibrarianSignup)
	bookService := service.NewBook(db.store, logger)
	borrowingService := service.NewBorrowing(db.store, clk, cfg.Lending.LoanPeriodDays, logger)
	reportService := service.NewReport(db.store, clk, reportStorage, logger)

	opts := router.Options{Version: buildVersion}
	if db.pinger != nil {
		opts.Pinger = db.pinger
	}
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		go rl.Run(ctx)
		opts.RateLimit = rl
	}

	r := router.New(authService, bookService, borrowingService, reportService, httpctx.NewManager(), opts, logger)

	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	logAppVersion()

	return serveUntilDone(ctx, httpServer, sl, cfg.HTTP.ShutdownTimeout, logger)
}

// serveUntilDone runs s until ctx is cancelled or the server fails to start.
// A start failure is returned so the process exits non-zero.
func serveUntilDone(
	ctx context.Context,
	s model.Server,
	sl model.SecurityLayer,
	shutdownTimeout time.Duration,
	logger *logger.Logger,
) error {
	startErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server on", "address", s.Address())
		startErr <- s.Start(sl)
	}()

	select {
	case err := <-startErr:
		if err != nil {
			logger.Error("failed to start server", "error", err)
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := s.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", s.Address())
	}

	if err := <-startErr; err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
