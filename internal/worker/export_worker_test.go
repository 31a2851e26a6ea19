package worker

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/services"
	"github.com/James-hg/MountMadness2026/internal/sheets/memory"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

func newWorkerFixture(t *testing.T) (*ExportWorker, *memory.Store, *storage.SQLiteRepository, core.User) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	user, err := repo.EnsureUser(context.Background(), "dev@example.com", "Dev", "CAD")
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}

	store := memory.New()
	processor := services.NewExportProcessor(repo, store)
	return NewExportWorker(processor, nil, DefaultExportWorkerConfig()), store, repo, user
}

func TestDefaultExportWorkerConfig(t *testing.T) {
	config := DefaultExportWorkerConfig()

	if config.SweepInterval != 30*time.Second {
		t.Errorf("expected SweepInterval 30s, got %v", config.SweepInterval)
	}
	if config.BatchSize != 25 {
		t.Errorf("expected BatchSize 25, got %d", config.BatchSize)
	}
}

func TestExportWorker_IsRunning(t *testing.T) {
	worker, _, _, _ := newWorkerFixture(t)

	if worker.IsRunning() {
		t.Error("worker should not be running initially")
	}
}

func TestExportWorker_StartTwice(t *testing.T) {
	worker, _, _, _ := newWorkerFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := worker.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer worker.Stop(context.Background())

	if err := worker.Start(ctx); err == nil {
		t.Error("expected error when starting already running worker")
	}
}

func TestExportWorker_StopNotRunning(t *testing.T) {
	worker, _, _, _ := newWorkerFixture(t)

	if err := worker.Stop(context.Background()); err != nil {
		t.Errorf("Stop should not error when not running: %v", err)
	}
}

func TestExportWorker_StartDrainsBacklog(t *testing.T) {
	worker, store, repo, user := newWorkerFixture(t)
	ctx := context.Background()

	payload, err := json.Marshal(core.PlanExport{
		UserEmail:  user.Email,
		Month:      "2026-09",
		Currency:   "CAD",
		Strategy:   core.StrategyDefaultWeights,
		TotalCents: 1000,
		Rows:       []core.PlanExportRow{{Slug: "food", LimitCents: 1000}},
	})
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	if _, err := repo.EnqueueExport(ctx, user.ID, core.ExportPlan, payload); err != nil {
		t.Fatalf("EnqueueExport() error = %v", err)
	}

	// The startup sweep runs before Start returns, so the backlog is
	// already drained here.
	if err := worker.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !worker.IsRunning() {
		t.Error("worker should report running after Start")
	}

	if _, ok := store.Plan("2026-09"); !ok {
		t.Error("backlog job not exported by the startup sweep")
	}
	pending, err := repo.ListPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingExports() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("outbox still has %d jobs after startup sweep", len(pending))
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := worker.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if worker.IsRunning() {
		t.Error("worker should not report running after Stop")
	}
}
