package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/James-hg/MountMadness2026/internal/amqp"
	"github.com/James-hg/MountMadness2026/internal/backend"
	"github.com/James-hg/MountMadness2026/internal/cli"
	"github.com/James-hg/MountMadness2026/internal/log"
	"github.com/James-hg/MountMadness2026/internal/services"
	"github.com/James-hg/MountMadness2026/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting mmbudget-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve the export backend up front: a worker with nowhere to
	// deliver exports has nothing to do.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid export backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if errors.Is(err, backend.ErrExportsDisabled) {
		logger.Info("Exports disabled, worker has no backend to deliver to")
		return
	}
	if err != nil {
		logger.Error("Failed to create export backend", "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}()
	}
	logger.Info("Export backend ready", "backend", backendCfg.Type)

	// The AMQP consumer gives jobs low latency; without it the periodic
	// outbox sweep still delivers everything.
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing in sweep-only mode", "error", err)
		amqpClient = nil
	} else {
		defer amqpClient.Close()
	}

	processor := services.NewExportProcessor(repo, result.Backend)

	workerCfg := worker.DefaultExportWorkerConfig()
	workerCfg.SweepInterval = cfg.ExportInterval
	workerCfg.BatchSize = cfg.ExportBatchSize

	exportWorker := worker.NewExportWorker(processor, amqpClient, workerCfg)
	if err := exportWorker.Start(ctx); err != nil {
		logger.Error("Failed to start export worker", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	if err := exportWorker.Stop(shutdownCtx); err != nil {
		logger.Warn("Shutdown timeout reached", "error", err)
		return
	}
	logger.Info("Worker shutdown complete")
}
