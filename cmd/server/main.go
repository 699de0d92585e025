// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aymanbm/rag-app-consommation/internal/common/config"
	"github.com/aymanbm/rag-app-consommation/internal/common/database"
	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/generator"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/orchestrator"
	"github.com/aymanbm/rag-app-consommation/internal/query/dispatch"
	"github.com/aymanbm/rag-app-consommation/internal/query/entity"
	"github.com/aymanbm/rag-app-consommation/internal/query/synthesis"
	"github.com/aymanbm/rag-app-consommation/internal/server"
	"github.com/aymanbm/rag-app-consommation/internal/store"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting query server",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Ledger store, optionally behind the Redis cache ---
	var ledger store.LedgerStore = store.NewPostgresStore(pg.DB, cfg.Database.Postgres, log)
	if cfg.Cache.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected")

		ledger = store.NewCachedStore(ledger, redis.Client, config.GetDuration(cfg.Cache.TTL), log)
	}

	// --- Vocabulary snapshots ---
	catalog := entity.NewCatalog(ledger, log)
	if err := catalog.Reload(ctx); err != nil {
		zapLog.Fatal("vocabulary load failed", zap.Error(err))
	}
	zapLog.Info("vocabularies loaded",
		zap.Int("families", len(catalog.Family().Labels)),
		zap.Int("products", len(catalog.Product().Labels)),
		zap.Int("silos", len(catalog.Silo().Labels)),
	)

	// --- Optional text generator ---
	var gen generator.Generator
	if cfg.LLM.Enabled {
		gen = generator.NewOllamaClient(cfg.LLM, log)
		zapLog.Info("text generator enabled",
			zap.String("model", cfg.LLM.Model),
			zap.String("mode", cfg.LLM.Mode),
		)
	}

	answerer := orchestrator.New(
		catalog,
		dispatch.NewDispatcher(ledger, log),
		synthesis.NewSynthesizer(gen, log),
		models.ParseMode(cfg.LLM.Mode, models.ModeServer),
		log,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.New(answerer, catalog, log).Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.RequestTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.RequestTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP shutdown failed", zap.Error(err))
	}

	zapLog.Info("query server stopped gracefully")
}
