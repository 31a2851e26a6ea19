package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/amqp"
	"github.com/James-hg/MountMadness2026/internal/cache"
	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

// TransactionService orchestrates ledger writes across SQLite and the
// export pipeline.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	summaries  *cache.LRUCache[core.MonthSummary]
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, summaries *cache.LRUCache[core.MonthSummary]) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
		summaries:  summaries,
	}
}

// Record saves a transaction locally and queues its export. The local
// write is authoritative; export failures never fail the call.
func (s *TransactionService) Record(ctx context.Context, user core.User, t core.Transaction) (core.Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.UserID = user.ID

	category, err := s.storage.GetCategoryByID(ctx, t.CategoryID)
	if err != nil {
		return core.Transaction{}, err
	}
	if !visibleTo(category, user.ID) {
		return core.Transaction{}, core.ErrCategoryNotFound
	}
	if category.Kind != t.Kind {
		return core.Transaction{}, fmt.Errorf("category %s records %s, not %s", category.Slug, category.Kind, t.Kind)
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.invalidateSummary(user.ID, monthOf(saved.OccurredOn))
	s.enqueueTransactionExport(ctx, user, saved, category)

	return saved, nil
}

// Delete removes a transaction from the ledger. Rows already appended
// to an export sheet stay there; the ledger is authoritative.
func (s *TransactionService) Delete(ctx context.Context, user core.User, id uuid.UUID) error {
	t, err := s.storage.GetTransaction(ctx, user.ID, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteTransaction(ctx, user.ID, id); err != nil {
		return err
	}

	s.invalidateSummary(user.ID, monthOf(t.OccurredOn))

	slog.InfoContext(ctx, "Transaction deleted",
		"id", id.String(),
		"occurred_on", t.OccurredOn.Format("2006-01-02"))

	return nil
}

// ListMonth returns the user's transactions inside one calendar month.
func (s *TransactionService) ListMonth(ctx context.Context, user core.User, month core.MonthStart) ([]core.Transaction, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	return s.storage.ListTransactionsByMonth(ctx, user.ID, month)
}

// AddRecurringRule schedules a repeating transaction. The first
// occurrence is the anchor date itself unless a next due date is set.
func (s *TransactionService) AddRecurringRule(ctx context.Context, user core.User, rule core.RecurringRule) (core.RecurringRule, error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	rule.UserID = user.ID
	rule.IsActive = true
	if rule.NextDueDate.IsZero() {
		rule.NextDueDate = rule.AnchorDate
	}

	if err := rule.Validate(); err != nil {
		return core.RecurringRule{}, err
	}
	if _, err := GetScheduleAdvancer(rule.Frequency); err != nil {
		return core.RecurringRule{}, err
	}

	category, err := s.storage.GetCategoryByID(ctx, rule.CategoryID)
	if err != nil {
		return core.RecurringRule{}, err
	}
	if !visibleTo(category, user.ID) {
		return core.RecurringRule{}, core.ErrCategoryNotFound
	}
	if category.Kind != rule.Kind {
		return core.RecurringRule{}, fmt.Errorf("category %s records %s, not %s", category.Slug, category.Kind, rule.Kind)
	}

	return s.storage.CreateRecurringRule(ctx, rule)
}

// ListRecurringRules returns every rule the user has, active or paused.
func (s *TransactionService) ListRecurringRules(ctx context.Context, user core.User) ([]core.RecurringRule, error) {
	return s.storage.ListRecurringRules(ctx, user.ID)
}

// SetRecurringRuleActive pauses or resumes a rule.
func (s *TransactionService) SetRecurringRuleActive(ctx context.Context, user core.User, id uuid.UUID, active bool) error {
	return s.storage.SetRecurringRuleActive(ctx, user.ID, id, active)
}

func (s *TransactionService) invalidateSummary(userID uuid.UUID, month core.MonthStart) {
	if s.summaries != nil {
		s.summaries.Delete(summaryCacheKey(userID, month))
	}
}

// enqueueTransactionExport stores the transaction snapshot in the
// export outbox and notifies the worker. Failures only log.
func (s *TransactionService) enqueueTransactionExport(ctx context.Context, user core.User, t core.Transaction, category core.Category) {
	export := core.TransactionExport{
		ID:           t.ID.String(),
		UserEmail:    user.Email,
		CategorySlug: category.Slug,
		CategoryName: category.Name,
		Kind:         string(t.Kind),
		AmountCents:  t.Amount.Cents,
		OccurredOn:   t.OccurredOn.Format("2006-01-02"),
		Merchant:     t.Merchant,
		Note:         t.Note,
	}

	payload, err := json.Marshal(export)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal transaction export", "id", export.ID, "error", err)
		return
	}

	jobID, err := s.storage.EnqueueExport(ctx, user.ID, core.ExportTransaction, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to enqueue transaction export", "id", export.ID, "error", err)
		return
	}

	publishExportNotification(ctx, s.amqpClient, jobID, core.ExportTransaction)
}

func monthOf(t time.Time) core.MonthStart {
	return core.MonthStart{Year: t.Year(), Month: t.Month()}
}
