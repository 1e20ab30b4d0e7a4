package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"finsight/internal/amqp"
	"finsight/internal/auth"
	"finsight/internal/cache"
	"finsight/internal/cli"
	"finsight/internal/config"
	"finsight/internal/core"
	"finsight/internal/grpcserver"
	apphttp "finsight/internal/http"
	"finsight/internal/ledger"
	"finsight/internal/log"
	"finsight/internal/services"
)

const (
	shutdownTimeout      = 30 * time.Second
	cacheCleanupInterval = time.Minute
	healthCheckInterval  = 15 * time.Second
	snapshotCacheSize    = 1000
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig((*config.Config).ValidateServer)
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	if err := run(cfg, logger); err != nil {
		logger.Error("finsight stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Starting finsight", log.FieldOperation, log.OpStartup, log.FieldBackend, cfg.DataBackend, "port", cfg.Port)

	be, err := cli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Close(); err != nil {
			logger.Error("Failed to close ledger", log.FieldError, err.Error())
		}
	}()

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	snapshots := cache.NewLRUCache[[]core.Transaction](snapshotCacheSize, cfg.SnapshotCacheTTL)
	caches.Register(snapshots)
	store := ledger.NewCached(be.Store, snapshots)

	// A nil *amqp.Client must not reach the service as a non-nil interface.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
		logger.Info("Publishing transaction events", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled, transaction events will not be published")
	}

	svc := services.NewTransactionService(store, publisher, logger)
	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TopCategories:      cfg.TopCategories,
		WindowDays:         cfg.WindowDays,
	}, svc, auth.NewVerifier(cfg.JWTSecret), logger)
	if err != nil {
		return err
	}
	caches.Register(srv.Limiter())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return caches.Run(gctx, cacheCleanupInterval)
	})

	if cfg.GRPCAddr != "" {
		gs := grpcserver.New(cfg.GRPCAddr, svc, logger)
		g.Go(gs.Start)
		g.Go(func() error {
			return gs.Watch(gctx, healthCheckInterval)
		})
		g.Go(func() error {
			<-gctx.Done()
			gs.Stop()
			return nil
		})
	}

	err = g.Wait()
	logger.Info("finsight stopped", log.FieldOperation, log.OpShutdown)
	return err
}
