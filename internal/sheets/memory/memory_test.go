package memory

import (
	"context"
	"testing"

	"github.com/James-hg/MountMadness2026/internal/core"
)

func TestMemoryStorePlanRoundTrip(t *testing.T) {
	s := New()

	plan := core.PlanExport{
		UserEmail:  "dev@example.com",
		Month:      "2026-09",
		Currency:   "CAD",
		Strategy:   core.StrategyDefaultWeights,
		TotalCents: 150000,
		Rows: []core.PlanExportRow{
			{Name: "Rent", Slug: "housing_rent", IsFixed: true, LimitCents: 90000},
			{Name: "Food", Slug: "food", LimitCents: 60000},
		},
	}
	if err := s.WritePlan(context.Background(), plan); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got, ok := s.Plan("2026-09")
	if !ok {
		t.Fatal("plan not stored")
	}
	if got.TotalCents != 150000 || len(got.Rows) != 2 || got.Rows[0].Slug != "housing_rent" {
		t.Fatalf("unexpected plan: %+v", got)
	}

	if _, ok := s.Plan("2026-10"); ok {
		t.Error("unexpected plan for month that was never written")
	}

	// A rewrite for the same month replaces the stored plan
	plan.Rows = plan.Rows[:1]
	plan.TotalCents = 90000
	if err := s.WritePlan(context.Background(), plan); err != nil {
		t.Fatalf("unexpected rewrite error: %v", err)
	}
	got, _ = s.Plan("2026-09")
	if got.TotalCents != 90000 || len(got.Rows) != 1 {
		t.Fatalf("rewrite did not replace plan: %+v", got)
	}
}

func TestMemoryStoreAppendTransactions(t *testing.T) {
	s := New()

	tx := core.TransactionExport{
		ID:           "b2000000-0000-4000-8000-000000000001",
		UserEmail:    "dev@example.com",
		CategorySlug: "food",
		CategoryName: "Food",
		Kind:         "expense",
		AmountCents:  2500,
		OccurredOn:   "2026-08-10",
		Merchant:     "No Frills",
	}

	ref, err := s.AppendTransaction(context.Background(), tx)
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	ref, err = s.AppendTransaction(context.Background(), tx)
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected second append: ref=%q err=%v", ref, err)
	}

	txs := s.Transactions()
	if len(txs) != 2 || txs[0].Merchant != "No Frills" {
		t.Fatalf("unexpected transactions: %+v", txs)
	}

	// The returned slice is a copy
	txs[0].Merchant = "changed"
	if s.Transactions()[0].Merchant != "No Frills" {
		t.Error("mutating returned slice leaked into store")
	}
}

func TestMemoryStoreValidation(t *testing.T) {
	s := New()

	if err := s.WritePlan(context.Background(), core.PlanExport{Month: "not-a-month"}); err == nil {
		t.Error("expected error for invalid plan")
	}

	_, err := s.AppendTransaction(context.Background(), core.TransactionExport{
		ID:           "b2000000-0000-4000-8000-000000000002",
		CategorySlug: "food",
		Kind:         "expense",
		AmountCents:  0, // not positive
		OccurredOn:   "2026-08-10",
	})
	if err == nil {
		t.Error("expected error for non-positive amount")
	}
	if len(s.Transactions()) != 0 {
		t.Error("rejected transaction was stored")
	}
}

func TestMemoryStoreSummary(t *testing.T) {
	s := New()

	month, err := core.ParseMonth("2026-08")
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	sum := core.MonthSummary{
		MonthStart: month,
		Currency:   "CAD",
		Total:      core.Money{Cents: 100000},
		Strategy:   core.StrategyDefaultWeights,
		TotalSpent: core.Money{Cents: 40000},
		Lines: []core.BudgetLine{
			{Name: "Food", Slug: "food", Limit: core.Money{Cents: 30000}, Spent: core.Money{Cents: 25000}, Remaining: core.Money{Cents: 5000}, Status: core.StatusWarning},
		},
	}
	if err := s.WriteSummary(context.Background(), sum); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got, ok := s.Summary("2026-08")
	if !ok {
		t.Fatal("summary not stored")
	}
	if got.TotalSpent.Cents != 40000 || len(got.Lines) != 1 || got.Lines[0].Status != core.StatusWarning {
		t.Fatalf("unexpected summary: %+v", got)
	}
}
