package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is the canonical format for date-valued TEXT columns
// (occurred_on, anchor_date, next_due_date, month_start).
const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Foreign keys are off by default in SQLite; the schema relies on
	// ON DELETE CASCADE.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// EnsureUser looks up a user by email, creating the row on first use.
func (r *SQLiteRepository) EnsureUser(ctx context.Context, email, displayName, currency string) (core.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if err == nil {
		return userFromRow(row)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}

	row, err = r.queries.CreateUser(ctx, CreateUserParams{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		BaseCurrency: currency,
	})
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created",
		"id", row.ID,
		"email", row.Email,
		"currency", row.BaseCurrency)

	return userFromRow(row)
}

// GetUserByEmail returns core.ErrUserNotFound when no row matches.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return userFromRow(row)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id uuid.UUID) (core.User, error) {
	row, err := r.queries.GetUserByID(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return userFromRow(row)
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	row, err := r.queries.CreateCategory(ctx, CreateCategoryParams{
		ID:       c.ID.String(),
		OwnerID:  ownerID(c.OwnerID),
		Name:     c.Name,
		Slug:     c.Slug,
		Kind:     string(c.Kind),
		IsSystem: c.IsSystem,
	})
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"id", row.ID,
		"slug", row.Slug,
		"kind", row.Kind)

	return categoryFromRow(row)
}

func (r *SQLiteRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (core.Category, error) {
	row, err := r.queries.GetCategoryByID(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return categoryFromRow(row)
}

// GetCategoryBySlug resolves a slug within the categories visible to the
// user: system categories plus the user's own.
func (r *SQLiteRepository) GetCategoryBySlug(ctx context.Context, userID uuid.UUID, slug string, kind core.TransactionKind) (core.Category, error) {
	row, err := r.queries.GetCategoryBySlug(ctx, GetCategoryBySlugParams{
		Slug:    slug,
		Kind:    string(kind),
		OwnerID: ownerID(userID),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category by slug %s: %w", slug, err)
	}
	return categoryFromRow(row)
}

// ListCategoriesByKind returns visible categories ordered by id, which
// keeps allocation scope order stable across calls.
func (r *SQLiteRepository) ListCategoriesByKind(ctx context.Context, userID uuid.UUID, kind core.TransactionKind) ([]core.Category, error) {
	rows, err := r.queries.ListVisibleCategoriesByKind(ctx, ListVisibleCategoriesByKindParams{
		Kind:    string(kind),
		OwnerID: ownerID(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]core.Category, 0, len(rows))
	for _, row := range rows {
		c, err := categoryFromRow(row)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *SQLiteRepository) MarkCategoryFixed(ctx context.Context, userID, categoryID uuid.UUID) error {
	err := r.queries.AddFixedCategory(ctx, AddFixedCategoryParams{
		UserID:     userID.String(),
		CategoryID: categoryID.String(),
	})
	if err != nil {
		return fmt.Errorf("mark category fixed: %w", err)
	}
	return nil
}

// UnmarkCategoryFixed returns core.ErrCategoryNotFound when the category
// was not marked fixed for the user.
func (r *SQLiteRepository) UnmarkCategoryFixed(ctx context.Context, userID, categoryID uuid.UUID) error {
	affected, err := r.queries.RemoveFixedCategory(ctx, RemoveFixedCategoryParams{
		UserID:     userID.String(),
		CategoryID: categoryID.String(),
	})
	if err != nil {
		return fmt.Errorf("unmark category fixed: %w", err)
	}
	if affected == 0 {
		return core.ErrCategoryNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListFixedCategoryIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	ids, err := r.queries.ListFixedCategoryIDs(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list fixed categories: %w", err)
	}

	fixed := make(map[uuid.UUID]bool, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse fixed category id: %w", err)
		}
		fixed[id] = true
	}
	return fixed, nil
}

func (r *SQLiteRepository) UpsertMonthlyTotal(ctx context.Context, t core.MonthlyBudgetTotal) (core.MonthlyBudgetTotal, error) {
	row, err := r.queries.UpsertMonthlyTotal(ctx, UpsertMonthlyTotalParams{
		UserID:     t.UserID.String(),
		MonthStart: t.MonthStart.String(),
		TotalCents: t.Total.Cents,
		Currency:   t.Currency,
		Strategy:   t.Strategy,
	})
	if err != nil {
		return core.MonthlyBudgetTotal{}, fmt.Errorf("upsert monthly total: %w", err)
	}
	return totalFromRow(row)
}

// GetMonthlyTotal returns core.ErrBudgetNotFound when the month has no
// budget envelope yet.
func (r *SQLiteRepository) GetMonthlyTotal(ctx context.Context, userID uuid.UUID, month core.MonthStart) (core.MonthlyBudgetTotal, error) {
	row, err := r.queries.GetMonthlyTotal(ctx, GetMonthlyTotalParams{
		UserID:     userID.String(),
		MonthStart: month.String(),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyBudgetTotal{}, core.ErrBudgetNotFound
	}
	if err != nil {
		return core.MonthlyBudgetTotal{}, fmt.Errorf("get monthly total: %w", err)
	}
	return totalFromRow(row)
}

// ListMonthlyTotalsBefore returns up to n positive totals for months
// strictly before the given month, most recent first.
func (r *SQLiteRepository) ListMonthlyTotalsBefore(ctx context.Context, userID uuid.UUID, month core.MonthStart, n int) ([]core.MonthlyBudgetTotal, error) {
	rows, err := r.queries.ListMonthlyTotalsBefore(ctx, ListMonthlyTotalsBeforeParams{
		UserID:     userID.String(),
		MonthStart: month.String(),
		RowLimit:   int64(n),
	})
	if err != nil {
		return nil, fmt.Errorf("list monthly totals: %w", err)
	}

	totals := make([]core.MonthlyBudgetTotal, 0, len(rows))
	for _, row := range rows {
		t, err := totalFromRow(row)
		if err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, nil
}

// ReplaceCategoryBudgets swaps the stored plan for a month inside one
// transaction. With force set every row goes; otherwise user-modified
// rows survive the delete and the new plan is upserted around them.
func (r *SQLiteRepository) ReplaceCategoryBudgets(ctx context.Context, userID uuid.UUID, month core.MonthStart, plan []core.CategoryBudget, force bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if force {
		err = qtx.DeleteCategoryBudgets(ctx, DeleteCategoryBudgetsParams{
			UserID:     userID.String(),
			MonthStart: month.String(),
		})
	} else {
		err = qtx.DeleteUnmodifiedCategoryBudgets(ctx, DeleteUnmodifiedCategoryBudgetsParams{
			UserID:     userID.String(),
			MonthStart: month.String(),
		})
	}
	if err != nil {
		return fmt.Errorf("clear category budgets: %w", err)
	}

	for _, b := range plan {
		_, err := qtx.UpsertCategoryBudget(ctx, UpsertCategoryBudgetParams{
			UserID:         b.UserID.String(),
			CategoryID:     b.CategoryID.String(),
			MonthStart:     b.MonthStart.String(),
			LimitCents:     b.Limit.Cents,
			IsUserModified: b.IsUserModified,
		})
		if err != nil {
			return fmt.Errorf("upsert category budget: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit budget plan: %w", err)
	}

	slog.InfoContext(ctx, "Budget plan stored",
		"user_id", userID.String(),
		"month", month.Label(),
		"rows", len(plan),
		"force", force)

	return nil
}

func (r *SQLiteRepository) UpsertCategoryBudget(ctx context.Context, b core.CategoryBudget) (core.CategoryBudget, error) {
	row, err := r.queries.UpsertCategoryBudget(ctx, UpsertCategoryBudgetParams{
		UserID:         b.UserID.String(),
		CategoryID:     b.CategoryID.String(),
		MonthStart:     b.MonthStart.String(),
		LimitCents:     b.Limit.Cents,
		IsUserModified: b.IsUserModified,
	})
	if err != nil {
		return core.CategoryBudget{}, fmt.Errorf("upsert category budget: %w", err)
	}
	return budgetFromRow(row)
}

func (r *SQLiteRepository) GetCategoryBudget(ctx context.Context, userID, categoryID uuid.UUID, month core.MonthStart) (core.CategoryBudget, error) {
	row, err := r.queries.GetCategoryBudget(ctx, GetCategoryBudgetParams{
		UserID:     userID.String(),
		CategoryID: categoryID.String(),
		MonthStart: month.String(),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.CategoryBudget{}, core.ErrBudgetNotFound
	}
	if err != nil {
		return core.CategoryBudget{}, fmt.Errorf("get category budget: %w", err)
	}
	return budgetFromRow(row)
}

func (r *SQLiteRepository) ListCategoryBudgets(ctx context.Context, userID uuid.UUID, month core.MonthStart) ([]core.CategoryBudget, error) {
	rows, err := r.queries.ListCategoryBudgets(ctx, ListCategoryBudgetsParams{
		UserID:     userID.String(),
		MonthStart: month.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list category budgets: %w", err)
	}

	budgets := make([]core.CategoryBudget, 0, len(rows))
	for _, row := range rows {
		b, err := budgetFromRow(row)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:              t.ID.String(),
		UserID:          t.UserID.String(),
		CategoryID:      t.CategoryID.String(),
		Kind:            string(t.Kind),
		AmountCents:     t.Amount.Cents,
		OccurredOn:      t.OccurredOn.Format(dateLayout),
		Merchant:        t.Merchant,
		Note:            t.Note,
		RecurringRuleID: ownerID(t.RecurringRuleID),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", row.ID,
		"kind", row.Kind,
		"amount_cents", row.AmountCents,
		"occurred_on", row.OccurredOn)

	return transactionFromRow(row)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id uuid.UUID) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, GetTransactionParams{
		ID:     id.String(),
		UserID: userID.String(),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, userID uuid.UUID, month core.MonthStart) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByMonth(ctx, ListTransactionsByMonthParams{
		UserID:   userID.String(),
		FromDate: month.Date().Format(dateLayout),
		ToDate:   month.EndExclusive().Format(dateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	transactions := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// SumExpensesByCategory returns spent cents per category for the month.
// Categories without expenses are absent from the map.
func (r *SQLiteRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, month core.MonthStart) (map[uuid.UUID]int64, error) {
	rows, err := r.queries.SumExpensesByCategory(ctx, SumExpensesByCategoryParams{
		UserID:   userID.String(),
		FromDate: month.Date().Format(dateLayout),
		ToDate:   month.EndExclusive().Format(dateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}

	sums := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("parse category id: %w", err)
		}
		sums[id] = row.TotalCents
	}
	return sums, nil
}

// SumExpensesBetween totals expenses with from inclusive and to exclusive.
func (r *SQLiteRepository) SumExpensesBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (core.Money, error) {
	total, err := r.queries.SumExpensesBetween(ctx, SumExpensesBetweenParams{
		UserID:   userID.String(),
		FromDate: from.Format(dateLayout),
		ToDate:   to.Format(dateLayout),
	})
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: total}, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := r.queries.DeleteTransaction(ctx, DeleteTransactionParams{
		ID:     id.String(),
		UserID: userID.String(),
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateRecurringRule(ctx context.Context, rule core.RecurringRule) (core.RecurringRule, error) {
	row, err := r.queries.CreateRecurringRule(ctx, CreateRecurringRuleParams{
		ID:          rule.ID.String(),
		UserID:      rule.UserID.String(),
		CategoryID:  rule.CategoryID.String(),
		Kind:        string(rule.Kind),
		AmountCents: rule.Amount.Cents,
		Merchant:    rule.Merchant,
		Note:        rule.Note,
		Frequency:   string(rule.Frequency),
		AnchorDate:  rule.AnchorDate.Format(dateLayout),
		NextDueDate: rule.NextDueDate.Format(dateLayout),
		IsActive:    rule.IsActive,
	})
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("create recurring rule: %w", err)
	}

	slog.InfoContext(ctx, "Recurring rule created",
		"id", row.ID,
		"frequency", row.Frequency,
		"next_due", row.NextDueDate)

	return ruleFromRow(row)
}

func (r *SQLiteRepository) ListRecurringRules(ctx context.Context, userID uuid.UUID) ([]core.RecurringRule, error) {
	rows, err := r.queries.ListRecurringRules(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list recurring rules: %w", err)
	}

	rules := make([]core.RecurringRule, 0, len(rows))
	for _, row := range rows {
		rule, err := ruleFromRow(row)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ListDueRecurringRules returns active rules due on or before asOf,
// across all users.
func (r *SQLiteRepository) ListDueRecurringRules(ctx context.Context, asOf time.Time) ([]core.RecurringRule, error) {
	rows, err := r.queries.ListActiveRecurringRulesDue(ctx, asOf.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list due recurring rules: %w", err)
	}

	rules := make([]core.RecurringRule, 0, len(rows))
	for _, row := range rows {
		rule, err := ruleFromRow(row)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *SQLiteRepository) AdvanceRecurringRule(ctx context.Context, id uuid.UUID, nextDue time.Time) error {
	err := r.queries.UpdateRecurringRuleNextDue(ctx, UpdateRecurringRuleNextDueParams{
		NextDueDate: nextDue.Format(dateLayout),
		ID:          id.String(),
	})
	if err != nil {
		return fmt.Errorf("advance recurring rule: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetRecurringRuleActive(ctx context.Context, userID, id uuid.UUID, active bool) error {
	affected, err := r.queries.SetRecurringRuleActive(ctx, SetRecurringRuleActiveParams{
		IsActive: active,
		ID:       id.String(),
		UserID:   userID.String(),
	})
	if err != nil {
		return fmt.Errorf("set recurring rule active: %w", err)
	}
	if affected == 0 {
		return core.ErrRuleNotFound
	}
	return nil
}

// EnqueueExport stores a serialized event for the export worker.
func (r *SQLiteRepository) EnqueueExport(ctx context.Context, userID uuid.UUID, kind core.ExportKind, payload []byte) (int64, error) {
	row, err := r.queries.EnqueueExport(ctx, EnqueueExportParams{
		UserID:  userID.String(),
		Kind:    string(kind),
		Payload: string(payload),
	})
	if err != nil {
		return 0, fmt.Errorf("enqueue export: %w", err)
	}
	return row.ID, nil
}

// GetExportJob returns core.ErrExportNotFound when the row is gone,
// which consumers treat as already handled.
func (r *SQLiteRepository) GetExportJob(ctx context.Context, id int64) (core.ExportJob, error) {
	row, err := r.queries.GetExport(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExportJob{}, core.ErrExportNotFound
	}
	if err != nil {
		return core.ExportJob{}, fmt.Errorf("get export job: %w", err)
	}

	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return core.ExportJob{}, fmt.Errorf("parse export user id: %w", err)
	}

	return core.ExportJob{
		ID:       row.ID,
		UserID:   userID,
		Kind:     core.ExportKind(row.Kind),
		Payload:  []byte(row.Payload),
		Attempts: int(row.Attempts),
	}, nil
}

func (r *SQLiteRepository) ListPendingExports(ctx context.Context, limit int) ([]core.ExportJob, error) {
	rows, err := r.queries.ListPendingExports(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}

	jobs := make([]core.ExportJob, 0, len(rows))
	for _, row := range rows {
		userID, err := uuid.Parse(row.UserID)
		if err != nil {
			return nil, fmt.Errorf("parse export user id: %w", err)
		}
		jobs = append(jobs, core.ExportJob{
			ID:       row.ID,
			UserID:   userID,
			Kind:     core.ExportKind(row.Kind),
			Payload:  []byte(row.Payload),
			Attempts: int(row.Attempts),
		})
	}
	return jobs, nil
}

func (r *SQLiteRepository) MarkExportDone(ctx context.Context, id int64) error {
	if err := r.queries.MarkExportDone(ctx, id); err != nil {
		return fmt.Errorf("mark export done: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64, cause error) error {
	err := r.queries.MarkExportError(ctx, MarkExportErrorParams{
		LastError: cause.Error(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}

	slog.WarnContext(ctx, "Export marked with error", "id", id, "cause", cause)
	return nil
}

// ownerID converts an optional uuid into its nullable column form. The
// zero uuid maps to NULL.
func ownerID(id uuid.UUID) sql.NullString {
	if id == uuid.Nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func userFromRow(row User) (core.User, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return core.User{}, fmt.Errorf("parse user id: %w", err)
	}
	return core.User{
		ID:          id,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Currency:    row.BaseCurrency,
	}, nil
}

func categoryFromRow(row Category) (core.Category, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("parse category id: %w", err)
	}

	var owner uuid.UUID
	if row.OwnerID.Valid {
		owner, err = uuid.Parse(row.OwnerID.String)
		if err != nil {
			return core.Category{}, fmt.Errorf("parse category owner id: %w", err)
		}
	}

	return core.Category{
		ID:       id,
		OwnerID:  owner,
		Name:     row.Name,
		Slug:     row.Slug,
		Kind:     core.TransactionKind(row.Kind),
		IsSystem: row.IsSystem,
	}, nil
}

func totalFromRow(row MonthlyBudgetTotal) (core.MonthlyBudgetTotal, error) {
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return core.MonthlyBudgetTotal{}, fmt.Errorf("parse user id: %w", err)
	}

	month, err := core.ParseMonth(row.MonthStart)
	if err != nil {
		return core.MonthlyBudgetTotal{}, fmt.Errorf("parse month start %q: %w", row.MonthStart, err)
	}

	return core.MonthlyBudgetTotal{
		UserID:     userID,
		MonthStart: month,
		Total:      core.Money{Cents: row.TotalCents},
		Currency:   row.Currency,
		Strategy:   row.Strategy,
	}, nil
}

func budgetFromRow(row CategoryBudget) (core.CategoryBudget, error) {
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return core.CategoryBudget{}, fmt.Errorf("parse user id: %w", err)
	}

	categoryID, err := uuid.Parse(row.CategoryID)
	if err != nil {
		return core.CategoryBudget{}, fmt.Errorf("parse category id: %w", err)
	}

	month, err := core.ParseMonth(row.MonthStart)
	if err != nil {
		return core.CategoryBudget{}, fmt.Errorf("parse month start %q: %w", row.MonthStart, err)
	}

	return core.CategoryBudget{
		UserID:         userID,
		CategoryID:     categoryID,
		MonthStart:     month,
		Limit:          core.Money{Cents: row.LimitCents},
		IsUserModified: row.IsUserModified,
	}, nil
}

func transactionFromRow(row Transaction) (core.Transaction, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction id: %w", err)
	}

	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse user id: %w", err)
	}

	categoryID, err := uuid.Parse(row.CategoryID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse category id: %w", err)
	}

	occurredOn, err := time.Parse(dateLayout, row.OccurredOn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred_on %q: %w", row.OccurredOn, err)
	}

	var ruleID uuid.UUID
	if row.RecurringRuleID.Valid {
		ruleID, err = uuid.Parse(row.RecurringRuleID.String)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse recurring rule id: %w", err)
		}
	}

	return core.Transaction{
		ID:              id,
		UserID:          userID,
		CategoryID:      categoryID,
		Kind:            core.TransactionKind(row.Kind),
		Amount:          core.Money{Cents: row.AmountCents},
		OccurredOn:      occurredOn,
		Merchant:        row.Merchant,
		Note:            row.Note,
		RecurringRuleID: ruleID,
	}, nil
}

func ruleFromRow(row RecurringRule) (core.RecurringRule, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("parse rule id: %w", err)
	}

	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("parse user id: %w", err)
	}

	categoryID, err := uuid.Parse(row.CategoryID)
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("parse category id: %w", err)
	}

	anchor, err := time.Parse(dateLayout, row.AnchorDate)
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("parse anchor_date %q: %w", row.AnchorDate, err)
	}

	nextDue, err := time.Parse(dateLayout, row.NextDueDate)
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("parse next_due_date %q: %w", row.NextDueDate, err)
	}

	return core.RecurringRule{
		ID:          id,
		UserID:      userID,
		CategoryID:  categoryID,
		Kind:        core.TransactionKind(row.Kind),
		Amount:      core.Money{Cents: row.AmountCents},
		Merchant:    row.Merchant,
		Note:        row.Note,
		Frequency:   core.Frequency(row.Frequency),
		AnchorDate:  anchor,
		NextDueDate: nextDue,
		IsActive:    row.IsActive,
	}, nil
}
