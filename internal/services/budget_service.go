package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/James-hg/MountMadness2026/internal/allocation"
	"github.com/James-hg/MountMadness2026/internal/amqp"
	"github.com/James-hg/MountMadness2026/internal/cache"
	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

// defaultMonthlyTotalCents is the last-resort derived budget total
// (1000.00 in the user's currency) for users with no history at all.
const defaultMonthlyTotalCents = 100_000

// priorMonthsForDerivation caps how many earlier budget envelopes feed
// the derived-total average.
const priorMonthsForDerivation = 3

// BudgetService orchestrates budget envelopes and per-category limits
// across the allocation engine, SQLite and the export pipeline.
type BudgetService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	summaries  *cache.LRUCache[core.MonthSummary]
}

func NewBudgetService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, summaries *cache.LRUCache[core.MonthSummary]) *BudgetService {
	return &BudgetService{
		storage:    storage,
		amqpClient: amqpClient,
		summaries:  summaries,
	}
}

// SetMonthlyBudget stores the month's budget envelope, allocates it
// across the user's expense categories and persists the resulting plan.
// Without force, rows the user overrode keep their limits and only the
// rest of the scope is recomputed.
func (s *BudgetService) SetMonthlyBudget(ctx context.Context, user core.User, month core.MonthStart, total core.Money, force bool) (core.PlanExport, error) {
	currency := user.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	envelope := core.MonthlyBudgetTotal{
		UserID:     user.ID,
		MonthStart: month,
		Total:      total,
		Currency:   currency,
		Strategy:   core.StrategyDefaultWeights,
	}
	if err := envelope.Validate(); err != nil {
		return core.PlanExport{}, err
	}

	return s.allocateAndStore(ctx, user, envelope, force)
}

// Rebalance re-runs the allocation for a month that already has a budget
// envelope. Returns core.ErrBudgetNotFound when no envelope exists.
func (s *BudgetService) Rebalance(ctx context.Context, user core.User, month core.MonthStart, force bool) (core.PlanExport, error) {
	if err := month.Validate(); err != nil {
		return core.PlanExport{}, err
	}

	envelope, err := s.storage.GetMonthlyTotal(ctx, user.ID, month)
	if err != nil {
		return core.PlanExport{}, err
	}

	return s.allocateAndStore(ctx, user, envelope, force)
}

// DeriveDefaultTotal suggests a budget total for a month the user has
// not budgeted explicitly: the average of up to three prior months'
// positive totals, else the expense sum of the 30 days before asOf,
// else 1000.00.
func (s *BudgetService) DeriveDefaultTotal(ctx context.Context, user core.User, month core.MonthStart, asOf time.Time) (core.Money, error) {
	if err := month.Validate(); err != nil {
		return core.Money{}, err
	}

	priors, err := s.storage.ListMonthlyTotalsBefore(ctx, user.ID, month, priorMonthsForDerivation)
	if err != nil {
		return core.Money{}, err
	}
	if len(priors) > 0 {
		var sum int64
		for _, p := range priors {
			sum += p.Total.Cents
		}
		return core.Money{Cents: sum / int64(len(priors))}, nil
	}

	spent, err := s.storage.SumExpensesBetween(ctx, user.ID, asOf.AddDate(0, 0, -30), asOf)
	if err != nil {
		return core.Money{}, err
	}
	if spent.Cents > 0 {
		return spent, nil
	}

	return core.Money{Cents: defaultMonthlyTotalCents}, nil
}

// UpdateCategoryLimit overrides one category's limit for a month and
// marks the row user-modified, exempting it from later non-forced
// rebalances. The rest of the plan is left untouched.
func (s *BudgetService) UpdateCategoryLimit(ctx context.Context, user core.User, slug string, month core.MonthStart, limit core.Money) (core.CategoryBudget, error) {
	category, err := s.storage.GetCategoryBySlug(ctx, user.ID, slug, core.Expense)
	if err != nil {
		return core.CategoryBudget{}, err
	}

	budget := core.CategoryBudget{
		UserID:         user.ID,
		CategoryID:     category.ID,
		MonthStart:     month,
		Limit:          limit,
		IsUserModified: true,
	}
	if err := budget.Validate(); err != nil {
		return core.CategoryBudget{}, err
	}

	stored, err := s.storage.UpsertCategoryBudget(ctx, budget)
	if err != nil {
		return core.CategoryBudget{}, err
	}

	slog.InfoContext(ctx, "Category limit overridden",
		"user_id", user.ID.String(),
		"category", category.Slug,
		"month", month.Label(),
		"limit_cents", stored.Limit.Cents)

	s.invalidateSummary(user.ID, month)
	s.exportStoredPlan(ctx, user, month)

	return stored, nil
}

// GetBudgetSummary assembles the per-category budget picture for a
// month. Results are cached per user and month; every budget or
// transaction write for that month evicts the entry.
func (s *BudgetService) GetBudgetSummary(ctx context.Context, user core.User, month core.MonthStart) (core.MonthSummary, error) {
	if err := month.Validate(); err != nil {
		return core.MonthSummary{}, err
	}

	key := summaryCacheKey(user.ID, month)
	if s.summaries != nil {
		if cached, ok := s.summaries.Get(key); ok {
			slog.DebugContext(ctx, "Budget summary served from cache", "key", key)
			return cached, nil
		}
	}

	summary, err := loadMonthSummary(ctx, s.storage, user, month)
	if err != nil {
		return core.MonthSummary{}, err
	}

	if s.summaries != nil {
		s.summaries.Set(key, summary)
	}

	return summary, nil
}

// loadMonthSummary assembles the month summary straight from storage.
// The export processor uses it too, so it stays cache-free.
func loadMonthSummary(ctx context.Context, store *storage.SQLiteRepository, user core.User, month core.MonthStart) (core.MonthSummary, error) {
	var (
		envelope   core.MonthlyBudgetTotal
		categories []core.Category
		fixed      map[uuid.UUID]bool
		budgets    []core.CategoryBudget
		spent      map[uuid.UUID]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		envelope, err = store.GetMonthlyTotal(gctx, user.ID, month)
		if errors.Is(err, core.ErrBudgetNotFound) {
			// No envelope yet; the summary still shows spend per category.
			envelope = core.MonthlyBudgetTotal{UserID: user.ID, MonthStart: month, Currency: user.Currency}
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = store.ListCategoriesByKind(gctx, user.ID, core.Expense)
		return err
	})
	g.Go(func() error {
		var err error
		fixed, err = store.ListFixedCategoryIDs(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = store.ListCategoryBudgets(gctx, user.ID, month)
		return err
	})
	g.Go(func() error {
		var err error
		spent, err = store.SumExpensesByCategory(gctx, user.ID, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MonthSummary{}, fmt.Errorf("load budget summary: %w", err)
	}

	return buildMonthSummary(month, envelope, categories, fixed, budgets, spent), nil
}

// resolveScope returns the user's visible expense categories as
// allocation targets in ascending id order, each tagged with its fixed
// marker, plus the category rows keyed by id for display and export.
func (s *BudgetService) resolveScope(ctx context.Context, userID uuid.UUID) ([]allocation.Category, map[uuid.UUID]core.Category, error) {
	categories, err := s.storage.ListCategoriesByKind(ctx, userID, core.Expense)
	if err != nil {
		return nil, nil, err
	}
	if len(categories) == 0 {
		return nil, nil, core.ErrEmptyScope
	}

	fixed, err := s.storage.ListFixedCategoryIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	scope := make([]allocation.Category, 0, len(categories))
	catalog := make(map[uuid.UUID]core.Category, len(categories))
	for _, c := range categories {
		catalog[c.ID] = c
		scope = append(scope, allocation.Category{
			ID:      c.ID,
			Slug:    c.Slug,
			IsFixed: fixed[c.ID],
		})
	}
	return scope, catalog, nil
}

// allocateAndStore runs the allocation for an envelope and persists
// both the envelope and the plan, then queues the export.
func (s *BudgetService) allocateAndStore(ctx context.Context, user core.User, envelope core.MonthlyBudgetTotal, force bool) (core.PlanExport, error) {
	scope, catalog, err := s.resolveScope(ctx, user.ID)
	if err != nil {
		return core.PlanExport{}, err
	}

	existingRows, err := s.storage.ListCategoryBudgets(ctx, user.ID, envelope.MonthStart)
	if err != nil {
		return core.PlanExport{}, err
	}
	existing := make([]allocation.ExistingLimit, 0, len(existingRows))
	for _, row := range existingRows {
		existing = append(existing, allocation.ExistingLimit{
			CategoryID:     row.CategoryID,
			Limit:          row.Limit,
			IsUserModified: row.IsUserModified,
		})
	}

	plan, err := allocation.Reallocate(envelope.Total, scope, existing, force)
	if err != nil {
		return core.PlanExport{}, fmt.Errorf("allocate budget: %w", err)
	}

	stored, err := s.storage.UpsertMonthlyTotal(ctx, envelope)
	if err != nil {
		return core.PlanExport{}, err
	}

	budgets := make([]core.CategoryBudget, len(plan))
	for i, row := range plan {
		budgets[i] = core.CategoryBudget{
			UserID:         user.ID,
			CategoryID:     row.CategoryID,
			MonthStart:     envelope.MonthStart,
			Limit:          row.Amount,
			IsUserModified: row.IsUserModified,
		}
	}
	if err := s.storage.ReplaceCategoryBudgets(ctx, user.ID, envelope.MonthStart, budgets, force); err != nil {
		return core.PlanExport{}, err
	}

	s.invalidateSummary(user.ID, envelope.MonthStart)

	export := buildPlanExport(user, stored, plan, catalog)
	s.enqueuePlanExport(ctx, user, export)

	return export, nil
}

// exportStoredPlan rebuilds the plan snapshot from stored rows and
// queues it. Months without an envelope are skipped; there is no total
// to put on the sheet yet.
func (s *BudgetService) exportStoredPlan(ctx context.Context, user core.User, month core.MonthStart) {
	envelope, err := s.storage.GetMonthlyTotal(ctx, user.ID, month)
	if errors.Is(err, core.ErrBudgetNotFound) {
		slog.DebugContext(ctx, "No budget envelope for month, skipping plan export", "month", month.Label())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load budget envelope for export", "month", month.Label(), "error", err)
		return
	}

	rows, err := s.storage.ListCategoryBudgets(ctx, user.ID, month)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load plan rows for export", "month", month.Label(), "error", err)
		return
	}

	categories, err := s.storage.ListCategoriesByKind(ctx, user.ID, core.Expense)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load categories for export", "month", month.Label(), "error", err)
		return
	}
	catalog := make(map[uuid.UUID]core.Category, len(categories))
	for _, c := range categories {
		catalog[c.ID] = c
	}

	fixed, err := s.storage.ListFixedCategoryIDs(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load fixed markers for export", "month", month.Label(), "error", err)
		return
	}

	export := core.PlanExport{
		UserEmail:  user.Email,
		Month:      envelope.MonthStart.Label(),
		Currency:   envelope.Currency,
		Strategy:   envelope.Strategy,
		TotalCents: envelope.Total.Cents,
		Rows:       make([]core.PlanExportRow, 0, len(rows)),
	}
	for _, row := range rows {
		c := catalog[row.CategoryID]
		export.Rows = append(export.Rows, core.PlanExportRow{
			CategoryID:     row.CategoryID.String(),
			Name:           c.Name,
			Slug:           c.Slug,
			IsFixed:        fixed[row.CategoryID],
			IsUserModified: row.IsUserModified,
			LimitCents:     row.Limit.Cents,
		})
	}

	s.enqueuePlanExport(ctx, user, export)
}

// enqueuePlanExport stores the plan snapshot in the export outbox and
// notifies the worker. Failures only log; the plan itself is already
// stored and a missed notification is recovered by the pending sweep.
func (s *BudgetService) enqueuePlanExport(ctx context.Context, user core.User, export core.PlanExport) {
	payload, err := json.Marshal(export)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal plan export", "month", export.Month, "error", err)
		return
	}

	jobID, err := s.storage.EnqueueExport(ctx, user.ID, core.ExportPlan, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to enqueue plan export", "month", export.Month, "error", err)
		return
	}

	publishExportNotification(ctx, s.amqpClient, jobID, core.ExportPlan)
}

func (s *BudgetService) invalidateSummary(userID uuid.UUID, month core.MonthStart) {
	if s.summaries != nil {
		s.summaries.Delete(summaryCacheKey(userID, month))
	}
}

// buildPlanExport flattens an allocation result into the export payload,
// resolving display names through the category catalog.
func buildPlanExport(user core.User, envelope core.MonthlyBudgetTotal, plan []allocation.Allocation, catalog map[uuid.UUID]core.Category) core.PlanExport {
	export := core.PlanExport{
		UserEmail:  user.Email,
		Month:      envelope.MonthStart.Label(),
		Currency:   envelope.Currency,
		Strategy:   envelope.Strategy,
		TotalCents: envelope.Total.Cents,
		Rows:       make([]core.PlanExportRow, 0, len(plan)),
	}
	for _, row := range plan {
		export.Rows = append(export.Rows, core.PlanExportRow{
			CategoryID:     row.CategoryID.String(),
			Name:           catalog[row.CategoryID].Name,
			Slug:           row.Slug,
			IsFixed:        row.IsFixed,
			IsUserModified: row.IsUserModified,
			LimitCents:     row.Amount.Cents,
		})
	}
	return export
}

// buildMonthSummary assembles summary lines from already-loaded rows.
// Categories keep their listing order, which is ascending id.
func buildMonthSummary(month core.MonthStart, envelope core.MonthlyBudgetTotal, categories []core.Category, fixed map[uuid.UUID]bool, budgets []core.CategoryBudget, spent map[uuid.UUID]int64) core.MonthSummary {
	byCategory := make(map[uuid.UUID]core.CategoryBudget, len(budgets))
	for _, b := range budgets {
		byCategory[b.CategoryID] = b
	}

	summary := core.MonthSummary{
		MonthStart: month,
		Currency:   envelope.Currency,
		Total:      envelope.Total,
		Strategy:   envelope.Strategy,
		Lines:      make([]core.BudgetLine, 0, len(categories)),
	}

	for _, c := range categories {
		b := byCategory[c.ID]
		spentHere := core.Money{Cents: spent[c.ID]}
		summary.TotalSpent.Cents += spentHere.Cents
		summary.Lines = append(summary.Lines, core.BudgetLine{
			CategoryID:     c.ID,
			Name:           c.Name,
			Slug:           c.Slug,
			IsFixed:        fixed[c.ID],
			IsUserModified: b.IsUserModified,
			Limit:          b.Limit,
			Spent:          spentHere,
			Remaining:      core.Money{Cents: b.Limit.Cents - spentHere.Cents},
			Status:         core.StatusFor(b.Limit, spentHere),
		})
	}

	return summary
}

func summaryCacheKey(userID uuid.UUID, month core.MonthStart) string {
	return userID.String() + "/" + month.String()
}

// publishExportNotification wakes the export worker for an outbox row.
// A nil client means exports run on the pending sweep alone.
func publishExportNotification(ctx context.Context, client *amqp.Client, jobID int64, kind core.ExportKind) {
	if client == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping export notification",
			"id", jobID, "kind", kind)
		return
	}

	if err := client.PublishExport(ctx, jobID, string(kind)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", jobID, "kind", kind, "error", err)
		// Don't fail the caller - the outbox row survives for the sweep
	}
}
