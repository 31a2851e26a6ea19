package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/James-hg/MountMadness2026/internal/amqp"
	"github.com/James-hg/MountMadness2026/internal/cache"
	"github.com/James-hg/MountMadness2026/internal/cli"
	"github.com/James-hg/MountMadness2026/internal/config"
	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/log"
	"github.com/James-hg/MountMadness2026/internal/services"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

const usageText = `mmbudget - monthly budget allocation and tracking

Usage:
  mmbudget <group> <command> [flags]

Budget:
  budget set        allocate a monthly total across expense categories
  budget derive     derive a total from recent months, then allocate it
  budget rebalance  redistribute the stored total (keeps pinned limits)
  budget limit      pin one category's limit for a month
  budget show       month summary: limits, spend, status

Transactions:
  tx add            record an expense or income
  tx list           list a month's transactions
  tx rm             delete a transaction

Categories:
  category add      create (or fetch) a category by name
  category list     list visible categories
  category fix      mark a category as a fixed commitment
  category unfix    clear the fixed mark

Recurring:
  recurring add     create a recurring rule
  recurring list    list recurring rules
  recurring pause   deactivate a rule
  recurring resume  reactivate a rule
  recurring run     materialize all due occurrences now

Export:
  export sweep      push pending outbox jobs to the export backend

Run 'mmbudget <group> <command> -h' for command flags.
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

// app wires the services every subcommand works through. Commands run
// against the operator user resolved from MM_USER_EMAIL.
type app struct {
	cfg          *config.Config
	repo         *storage.SQLiteRepository
	amqpClient   *amqp.Client
	budgets      *services.BudgetService
	transactions *services.TransactionService
	categories   *services.CategoryService
	user         core.User
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentCLI)

	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}
	group, command := os.Args[1], os.Args[2]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := newApp(ctx, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		os.Exit(1)
	}

	err = a.dispatch(ctx, group, command, os.Args[3:])
	cleanup()
	if err != nil {
		logger.Error("Command failed", "command", group+" "+command, "error", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, logger *log.Logger) (*app, func(), error) {
	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// AMQP is optional for the CLI: a missing broker only delays exports
	// until the worker's next outbox sweep.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, export notifications disabled", "error", err)
		} else {
			amqpClient = client
		}
	}

	user, err := repo.EnsureUser(ctx, cfg.UserEmail, displayNameFromEmail(cfg.UserEmail), cfg.Currency)
	if err != nil {
		if amqpClient != nil {
			amqpClient.Close()
		}
		repo.Close()
		return nil, nil, fmt.Errorf("resolve operator %s: %w", cfg.UserEmail, err)
	}

	summaries := cache.NewLRUCache[core.MonthSummary](32, 5*time.Minute)

	a := &app{
		cfg:          cfg,
		repo:         repo,
		amqpClient:   amqpClient,
		budgets:      services.NewBudgetService(repo, amqpClient, summaries),
		transactions: services.NewTransactionService(repo, amqpClient, summaries),
		categories:   services.NewCategoryService(repo),
		user:         user,
	}

	cleanup := func() {
		var errs []error
		if a.amqpClient != nil {
			if err := a.amqpClient.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := a.repo.Close(); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			logger.Warn("Cleanup finished with errors", "errors", errs)
		}
	}

	return a, cleanup, nil
}

func (a *app) dispatch(ctx context.Context, group, command string, args []string) error {
	switch group {
	case "budget":
		switch command {
		case "set":
			return a.cmdBudgetSet(ctx, args)
		case "derive":
			return a.cmdBudgetDerive(ctx, args)
		case "rebalance":
			return a.cmdBudgetRebalance(ctx, args)
		case "limit":
			return a.cmdBudgetLimit(ctx, args)
		case "show":
			return a.cmdBudgetShow(ctx, args)
		}
	case "tx":
		switch command {
		case "add":
			return a.cmdTxAdd(ctx, args)
		case "list":
			return a.cmdTxList(ctx, args)
		case "rm":
			return a.cmdTxRemove(ctx, args)
		}
	case "category":
		switch command {
		case "add":
			return a.cmdCategoryAdd(ctx, args)
		case "list":
			return a.cmdCategoryList(ctx, args)
		case "fix":
			return a.cmdCategoryFix(ctx, args, true)
		case "unfix":
			return a.cmdCategoryFix(ctx, args, false)
		}
	case "recurring":
		switch command {
		case "add":
			return a.cmdRecurringAdd(ctx, args)
		case "list":
			return a.cmdRecurringList(ctx, args)
		case "pause":
			return a.cmdRecurringActive(ctx, args, false)
		case "resume":
			return a.cmdRecurringActive(ctx, args, true)
		case "run":
			return a.cmdRecurringRun(ctx, args)
		}
	case "export":
		if command == "sweep" {
			return a.cmdExportSweep(ctx, args)
		}
	}

	usage()
	return fmt.Errorf("unknown command %q", group+" "+command)
}

func displayNameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
