package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"product-application-workers/internal/common/camunda"
	"product-application-workers/internal/common/config"
	"product-application-workers/internal/common/database"
	"product-application-workers/internal/common/logger"
	"product-application-workers/internal/common/observability"
	"product-application-workers/internal/common/underwriting"
	"product-application-workers/internal/productapplication"

	rso "product-application-workers/internal/workers/application/record-submission-outcome"
	spa "product-application-workers/internal/workers/application/submit-product-application"
)

func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	if err := run(cfg, zapLog); err != nil {
		zapLog.Fatal("worker manager stopped with error", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped gracefully")
}

func run(cfg *config.Config, zapLog *zap.Logger) error {
	log := logger.NewZapAdapter(zapLog)
	log.Info("Starting worker manager...", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.App.Name, zapLog)
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			log.Warn("meter provider shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		return fmt.Errorf("zeebe client: %w", err)
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", nil)

	var pg *database.PostgresClient
	err = retryWithBackoff(ctx, func() error {
		var err error
		if pg == nil {
			if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
				return err
			}
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pg.Close()
	log.Info("PostgreSQL connected successfully", nil)

	store := database.NewSubmissionStore(pg.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	checks := map[string]ReadinessCheck{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
	}

	spaCfg := spa.LoadConfig(cfg)
	var cache spa.SubmissionCache
	if cfg.Database.Redis.Address != "" {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis not reachable, submission cache will log misses", map[string]interface{}{"error": err})
		}
		cache = database.NewSubmissionCache(rc.Client, spaCfg.CacheTTL)
		checks["redis"] = rc.Ping
		log.Info("Redis submission cache enabled", map[string]interface{}{"address": cfg.Database.Redis.Address})
	}

	selectInvoice := underwriting.NewSelectInvoiceClient(cfg.Underwriting.SelectInvoice)
	confidentialInvoice := underwriting.NewConfidentialInvoiceClient(cfg.Underwriting.ConfidentialInvoice)
	businessLoans := underwriting.NewBusinessLoansClient(cfg.Underwriting.BusinessLoans)
	checks[selectInvoice.Name()] = selectInvoice.Ping
	checks[confidentialInvoice.Name()] = confidentialInvoice.Ping
	checks[businessLoans.Name()] = businessLoans.Ping

	router := productapplication.NewService(selectInvoice, confidentialInvoice, businessLoans, log)

	var workers []*camunda.CamundaWorker
	if config.IsWorkerEnabled(cfg, spa.TaskType) {
		handler := spa.NewHandler(spaCfg, router, cache, obs, log)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), spa.TaskType, config.GetWorkerConfig(cfg, spa.TaskType), handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": spa.TaskType})
	}

	if config.IsWorkerEnabled(cfg, rso.TaskType) {
		handler := rso.NewHandler(rso.LoadConfig(cfg), store, log)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), rso.TaskType, config.GetWorkerConfig(cfg, rso.TaskType), handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": rso.TaskType})
	}
	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newOpsRouter(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, stopping workers...", nil)

		for _, w := range workers {
			w.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
