package main

import (
	"time"

	"github.com/James-hg/MountMadness2026/internal/amqp"
	"github.com/James-hg/MountMadness2026/internal/cache"
	"github.com/James-hg/MountMadness2026/internal/cli"
	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/log"
	"github.com/James-hg/MountMadness2026/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentRecurring)

	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Materialized transactions are published for export like any other;
	// without a broker they wait for the export worker's outbox sweep.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			amqpClient = client
			logger.Info("AMQP client initialized, materialized transactions will be announced")
		}
	} else {
		logger.Info("AMQP disabled, exports rely on the outbox sweep")
	}

	summaries := cache.NewLRUCache[core.MonthSummary](32, 5*time.Minute)
	cacheManager := cache.NewManager()
	cacheManager.Register(summaries)
	cacheManager.StartCleanup(10 * time.Minute)

	transactions := services.NewTransactionService(repo, amqpClient, summaries)
	processor := services.NewRecurringProcessor(repo, transactions)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		cacheManager.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
	})

	logger.Info("Recurring rule processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	logger.Info("Running initial recurring rule processing...")
	if count, err := processor.ProcessDueRules(ctx, time.Now().UTC()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := processor.ProcessDueRules(ctx, now.UTC())
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
				} else if count > 0 {
					logger.Info("Periodic processing complete", "transactions_created", count)
				}
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
