package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/cache"
	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

func newTransactionService(t *testing.T) (*TransactionService, *storage.SQLiteRepository, core.User) {
	t.Helper()

	repo := newTestRepo(t)
	user := testUser(t, repo)
	summaries := cache.NewLRUCache[core.MonthSummary](16, time.Minute)
	return NewTransactionService(repo, nil, summaries), repo, user
}

func TestTransactionServiceRecord(t *testing.T) {
	svc, repo, user := newTransactionService(t)
	ctx := context.Background()
	food := categoryBySlug(t, repo, user, "food")

	saved, err := svc.Record(ctx, user, core.Transaction{
		CategoryID: food.ID,
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 1250},
		OccurredOn: date(2026, time.September, 5),
		Merchant:   "No Frills",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if saved.ID == uuid.Nil || saved.UserID != user.ID {
		t.Errorf("Record() = %+v, want filled id and owner", saved)
	}

	stored, err := repo.GetTransaction(ctx, user.ID, saved.ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if stored.Amount.Cents != 1250 || stored.Merchant != "No Frills" {
		t.Errorf("stored transaction = %+v, want the recorded one", stored)
	}

	pending, err := repo.ListPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingExports() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Kind != core.ExportTransaction {
		t.Fatalf("ListPendingExports() = %+v, want one transaction job", pending)
	}
	var exported core.TransactionExport
	if err := json.Unmarshal(pending[0].Payload, &exported); err != nil {
		t.Fatalf("transaction payload does not decode: %v", err)
	}
	want := core.TransactionExport{
		ID:           saved.ID.String(),
		UserEmail:    user.Email,
		CategorySlug: "food",
		CategoryName: food.Name,
		Kind:         "expense",
		AmountCents:  1250,
		OccurredOn:   "2026-09-05",
		Merchant:     "No Frills",
	}
	if exported != want {
		t.Errorf("exported transaction = %+v, want %+v", exported, want)
	}
}

func TestTransactionServiceRecordRejections(t *testing.T) {
	svc, repo, user := newTransactionService(t)
	ctx := context.Background()
	food := categoryBySlug(t, repo, user, "food")
	when := date(2026, time.September, 5)

	if _, err := svc.Record(ctx, user, core.Transaction{
		CategoryID: food.ID,
		Kind:       core.Expense,
		Amount:     core.Money{},
		OccurredOn: when,
	}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("Record(zero amount) error = %v, want ErrInvalidAmount", err)
	}

	if _, err := svc.Record(ctx, user, core.Transaction{
		CategoryID: food.ID,
		Kind:       core.Income,
		Amount:     core.Money{Cents: 1000},
		OccurredOn: when,
	}); err == nil {
		t.Error("Record(income into an expense category) error = nil, want kind mismatch")
	}

	if _, err := svc.Record(ctx, user, core.Transaction{
		CategoryID: uuid.New(),
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 1000},
		OccurredOn: when,
	}); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Errorf("Record(unknown category) error = %v, want ErrCategoryNotFound", err)
	}

	// Another user's custom category looks nonexistent from outside.
	other, err := repo.EnsureUser(ctx, "other@example.com", "Other", "CAD")
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	private, err := repo.CreateCategory(ctx, core.Category{
		ID:      uuid.New(),
		OwnerID: other.ID,
		Name:    "Climbing Gym",
		Slug:    "climbing_gym",
		Kind:    core.Expense,
	})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if _, err := svc.Record(ctx, user, core.Transaction{
		CategoryID: private.ID,
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 1000},
		OccurredOn: when,
	}); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Errorf("Record(foreign category) error = %v, want ErrCategoryNotFound", err)
	}
}

func TestTransactionServiceRecordEvictsSummary(t *testing.T) {
	repo := newTestRepo(t)
	user := testUser(t, repo)
	summaries := cache.NewLRUCache[core.MonthSummary](16, time.Minute)
	budgets := NewBudgetService(repo, nil, summaries)
	transactions := NewTransactionService(repo, nil, summaries)
	ctx := context.Background()
	september := month(t, "2026-09")
	food := categoryBySlug(t, repo, user, "food")

	if _, err := budgets.SetMonthlyBudget(ctx, user, september, core.Money{Cents: 100000}, false); err != nil {
		t.Fatalf("SetMonthlyBudget() error = %v", err)
	}

	before, err := budgets.GetBudgetSummary(ctx, user, september)
	if err != nil {
		t.Fatalf("GetBudgetSummary() error = %v", err)
	}
	if before.TotalSpent.Cents != 0 {
		t.Fatalf("TotalSpent before recording = %d, want 0", before.TotalSpent.Cents)
	}

	if _, err := transactions.Record(ctx, user, core.Transaction{
		CategoryID: food.ID,
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 2000},
		OccurredOn: date(2026, time.September, 10),
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	after, err := budgets.GetBudgetSummary(ctx, user, september)
	if err != nil {
		t.Fatalf("GetBudgetSummary() error = %v", err)
	}
	if after.TotalSpent.Cents != 2000 {
		t.Errorf("TotalSpent after recording = %d, want 2000 (stale cache entry served)", after.TotalSpent.Cents)
	}
}

func TestTransactionServiceDelete(t *testing.T) {
	svc, repo, user := newTransactionService(t)
	ctx := context.Background()
	food := categoryBySlug(t, repo, user, "food")

	saved, err := svc.Record(ctx, user, core.Transaction{
		CategoryID: food.ID,
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 999},
		OccurredOn: date(2026, time.September, 5),
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := svc.Delete(ctx, user, saved.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetTransaction(ctx, user.ID, saved.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Errorf("GetTransaction() after delete error = %v, want ErrTransactionNotFound", err)
	}
	if err := svc.Delete(ctx, user, saved.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrTransactionNotFound", err)
	}
}

func TestTransactionServiceListMonth(t *testing.T) {
	svc, repo, user := newTransactionService(t)
	ctx := context.Background()
	food := categoryBySlug(t, repo, user, "food")

	for _, day := range []time.Time{
		date(2026, time.September, 3),
		date(2026, time.September, 28),
		date(2026, time.October, 1),
	} {
		if _, err := svc.Record(ctx, user, core.Transaction{
			CategoryID: food.ID,
			Kind:       core.Expense,
			Amount:     core.Money{Cents: 500},
			OccurredOn: day,
		}); err != nil {
			t.Fatalf("Record(%s) error = %v", day.Format("2006-01-02"), err)
		}
	}

	listed, err := svc.ListMonth(ctx, user, month(t, "2026-09"))
	if err != nil {
		t.Fatalf("ListMonth() error = %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("ListMonth(2026-09) returned %d transactions, want 2", len(listed))
	}
}

func TestTransactionServiceAddRecurringRule(t *testing.T) {
	svc, repo, user := newTransactionService(t)
	ctx := context.Background()
	food := categoryBySlug(t, repo, user, "food")
	anchor := date(2026, time.September, 1)

	rule, err := svc.AddRecurringRule(ctx, user, core.RecurringRule{
		CategoryID: food.ID,
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 1500},
		Merchant:   "Meal Plan",
		Frequency:  core.Monthly,
		AnchorDate: anchor,
	})
	if err != nil {
		t.Fatalf("AddRecurringRule() error = %v", err)
	}
	if rule.ID == uuid.Nil || !rule.IsActive {
		t.Errorf("AddRecurringRule() = %+v, want active rule with id", rule)
	}
	if !rule.NextDueDate.Equal(anchor) {
		t.Errorf("NextDueDate = %s, want the anchor %s", rule.NextDueDate, anchor)
	}

	if _, err := svc.AddRecurringRule(ctx, user, core.RecurringRule{
		CategoryID: food.ID,
		Kind:       core.Expense,
		Amount:     core.Money{Cents: 1500},
		Frequency:  "daily",
		AnchorDate: anchor,
	}); !errors.Is(err, core.ErrInvalidFrequency) {
		t.Errorf("AddRecurringRule(daily) error = %v, want ErrInvalidFrequency", err)
	}

	if _, err := svc.AddRecurringRule(ctx, user, core.RecurringRule{
		CategoryID: food.ID,
		Kind:       core.Income,
		Amount:     core.Money{Cents: 1500},
		Frequency:  core.Monthly,
		AnchorDate: anchor,
	}); err == nil {
		t.Error("AddRecurringRule(income into an expense category) error = nil, want kind mismatch")
	}

	if err := svc.SetRecurringRuleActive(ctx, user, rule.ID, false); err != nil {
		t.Fatalf("SetRecurringRuleActive() error = %v", err)
	}
	rules, err := svc.ListRecurringRules(ctx, user)
	if err != nil {
		t.Fatalf("ListRecurringRules() error = %v", err)
	}
	if len(rules) != 1 || rules[0].IsActive {
		t.Errorf("ListRecurringRules() = %+v, want the single paused rule", rules)
	}
}
