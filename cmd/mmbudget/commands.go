package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/backend"
	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/services"
)

func (a *app) cmdBudgetSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget set", flag.ExitOnError)
	monthStr := fs.String("month", "", "month as YYYY-MM (default: current month)")
	totalStr := fs.String("total", "", "monthly total to allocate, e.g. 2000 or 2000.00")
	force := fs.Bool("force", false, "overwrite user-pinned category limits")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := resolveMonth(*monthStr)
	if err != nil {
		return err
	}
	total, err := parseAmount("total", *totalStr)
	if err != nil {
		return err
	}

	plan, err := a.budgets.SetMonthlyBudget(ctx, a.user, month, total, *force)
	if err != nil {
		return err
	}
	printPlan(plan)
	return nil
}

func (a *app) cmdBudgetDerive(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget derive", flag.ExitOnError)
	monthStr := fs.String("month", "", "month as YYYY-MM (default: current month)")
	force := fs.Bool("force", false, "overwrite user-pinned category limits")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := resolveMonth(*monthStr)
	if err != nil {
		return err
	}

	total, err := a.budgets.DeriveDefaultTotal(ctx, a.user, month, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Printf("Derived total for %s: %s\n", month.Label(), core.FormatCents(total.Cents))

	plan, err := a.budgets.SetMonthlyBudget(ctx, a.user, month, total, *force)
	if err != nil {
		return err
	}
	printPlan(plan)
	return nil
}

func (a *app) cmdBudgetRebalance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget rebalance", flag.ExitOnError)
	monthStr := fs.String("month", "", "month as YYYY-MM (default: current month)")
	force := fs.Bool("force", false, "also regenerate user-pinned limits")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := resolveMonth(*monthStr)
	if err != nil {
		return err
	}

	plan, err := a.budgets.Rebalance(ctx, a.user, month, *force)
	if err != nil {
		return err
	}
	printPlan(plan)
	return nil
}

func (a *app) cmdBudgetLimit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget limit", flag.ExitOnError)
	monthStr := fs.String("month", "", "month as YYYY-MM (default: current month)")
	slug := fs.String("category", "", "expense category slug")
	amountStr := fs.String("amount", "", "limit to pin, e.g. 250.00 (0 defunds the category)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := resolveMonth(*monthStr)
	if err != nil {
		return err
	}
	if *slug == "" {
		return fmt.Errorf("missing required -category")
	}
	var limit core.Money
	if *amountStr != "0" {
		// A zero limit is valid: it pins the category while defunding it.
		limit, err = parseAmount("amount", *amountStr)
		if err != nil {
			return err
		}
	}

	pinned, err := a.budgets.UpdateCategoryLimit(ctx, a.user, *slug, month, limit)
	if err != nil {
		return err
	}
	fmt.Printf("Pinned %s at %s for %s\n", *slug, core.FormatCents(pinned.Limit.Cents), month.Label())
	return nil
}

func (a *app) cmdBudgetShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget show", flag.ExitOnError)
	monthStr := fs.String("month", "", "month as YYYY-MM (default: current month)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := resolveMonth(*monthStr)
	if err != nil {
		return err
	}

	summary, err := a.budgets.GetBudgetSummary(ctx, a.user, month)
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func (a *app) cmdTxAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx add", flag.ExitOnError)
	slug := fs.String("category", "", "category slug")
	amountStr := fs.String("amount", "", "amount, e.g. 12.50")
	dateStr := fs.String("date", "", "date as YYYY-MM-DD (default: today)")
	merchant := fs.String("merchant", "", "merchant or payer")
	note := fs.String("note", "", "free-form note")
	income := fs.Bool("income", false, "record income instead of an expense")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *slug == "" {
		return fmt.Errorf("missing required -category")
	}
	amount, err := parseAmount("amount", *amountStr)
	if err != nil {
		return err
	}
	day, err := parseDay(*dateStr)
	if err != nil {
		return err
	}
	kind := transactionKind(*income)

	category, err := a.categories.GetBySlug(ctx, a.user, *slug, kind)
	if err != nil {
		return err
	}

	saved, err := a.transactions.Record(ctx, a.user, core.Transaction{
		CategoryID: category.ID,
		Kind:       kind,
		Amount:     amount,
		OccurredOn: day,
		Merchant:   *merchant,
		Note:       *note,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s %s in %s on %s (id %s)\n",
		kind, core.FormatCents(saved.Amount.Cents), category.Slug,
		saved.OccurredOn.Format("2006-01-02"), saved.ID)
	return nil
}

func (a *app) cmdTxList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx list", flag.ExitOnError)
	monthStr := fs.String("month", "", "month as YYYY-MM (default: current month)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := resolveMonth(*monthStr)
	if err != nil {
		return err
	}

	list, err := a.transactions.ListMonth(ctx, a.user, month)
	if err != nil {
		return err
	}
	slugs, err := a.categorySlugs(ctx)
	if err != nil {
		return err
	}
	printTransactions(month, list, slugs)
	return nil
}

func (a *app) cmdTxRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx rm", flag.ExitOnError)
	idStr := fs.String("id", "", "transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*idStr)
	if err != nil {
		return fmt.Errorf("transaction id %q: %w", *idStr, err)
	}
	if err := a.transactions.Delete(ctx, a.user, id); err != nil {
		return err
	}
	fmt.Printf("Deleted transaction %s\n", id)
	return nil
}

func (a *app) cmdCategoryAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("category add", flag.ExitOnError)
	name := fs.String("name", "", "category display name")
	income := fs.Bool("income", false, "create an income category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("missing required -name")
	}
	category, err := a.categories.EnsureCategory(ctx, a.user, *name, transactionKind(*income))
	if err != nil {
		return err
	}
	fmt.Printf("Category %q ready (slug %s)\n", category.Name, category.Slug)
	return nil
}

func (a *app) cmdCategoryList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("category list", flag.ExitOnError)
	income := fs.Bool("income", false, "list income categories instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.categories.ListByKind(ctx, a.user, transactionKind(*income))
	if err != nil {
		return err
	}
	fixed, err := a.categories.FixedCategoryIDs(ctx, a.user)
	if err != nil {
		return err
	}
	printCategories(list, fixed)
	return nil
}

func (a *app) cmdCategoryFix(ctx context.Context, args []string, fix bool) error {
	name := "category fix"
	if !fix {
		name = "category unfix"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	slug := fs.String("category", "", "expense category slug")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *slug == "" {
		return fmt.Errorf("missing required -category")
	}
	if fix {
		if err := a.categories.MarkFixed(ctx, a.user, *slug); err != nil {
			return err
		}
		fmt.Printf("Marked %s as a fixed commitment\n", *slug)
		return nil
	}
	if err := a.categories.UnmarkFixed(ctx, a.user, *slug); err != nil {
		return err
	}
	fmt.Printf("Cleared the fixed mark on %s\n", *slug)
	return nil
}

func (a *app) cmdRecurringAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recurring add", flag.ExitOnError)
	slug := fs.String("category", "", "category slug")
	amountStr := fs.String("amount", "", "amount per occurrence, e.g. 45.00")
	freq := fs.String("frequency", "monthly", "weekly, biweekly or monthly")
	anchorStr := fs.String("anchor", "", "first occurrence as YYYY-MM-DD (default: today)")
	merchant := fs.String("merchant", "", "merchant or payer")
	note := fs.String("note", "", "free-form note")
	income := fs.Bool("income", false, "recurring income instead of an expense")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *slug == "" {
		return fmt.Errorf("missing required -category")
	}
	amount, err := parseAmount("amount", *amountStr)
	if err != nil {
		return err
	}
	anchor, err := parseDay(*anchorStr)
	if err != nil {
		return err
	}
	kind := transactionKind(*income)

	category, err := a.categories.GetBySlug(ctx, a.user, *slug, kind)
	if err != nil {
		return err
	}

	rule, err := a.transactions.AddRecurringRule(ctx, a.user, core.RecurringRule{
		CategoryID: category.ID,
		Kind:       kind,
		Amount:     amount,
		Merchant:   *merchant,
		Note:       *note,
		Frequency:  core.Frequency(*freq),
		AnchorDate: anchor,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Recurring rule %s created, next due %s\n", rule.ID, rule.NextDueDate.Format("2006-01-02"))
	return nil
}

func (a *app) cmdRecurringList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recurring list", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rules, err := a.transactions.ListRecurringRules(ctx, a.user)
	if err != nil {
		return err
	}
	slugs, err := a.categorySlugs(ctx)
	if err != nil {
		return err
	}
	printRules(rules, slugs)
	return nil
}

func (a *app) cmdRecurringActive(ctx context.Context, args []string, active bool) error {
	name := "recurring pause"
	if active {
		name = "recurring resume"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	idStr := fs.String("id", "", "recurring rule id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*idStr)
	if err != nil {
		return fmt.Errorf("rule id %q: %w", *idStr, err)
	}
	if err := a.transactions.SetRecurringRuleActive(ctx, a.user, id, active); err != nil {
		return err
	}
	if active {
		fmt.Printf("Resumed recurring rule %s\n", id)
	} else {
		fmt.Printf("Paused recurring rule %s\n", id)
	}
	return nil
}

func (a *app) cmdRecurringRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recurring run", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	processor := services.NewRecurringProcessor(a.repo, a.transactions)
	created, err := processor.ProcessDueRules(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Printf("Created %d transactions from due recurring rules\n", created)
	return nil
}

func (a *app) cmdExportSweep(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export sweep", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	backendCfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(nil).CreateBackend(ctx, backendCfg)
	if errors.Is(err, backend.ErrExportsDisabled) {
		fmt.Println("Export backend disabled; nothing to do")
		return nil
	}
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	processor := services.NewExportProcessor(a.repo, result.Backend)
	processed, err := processor.ProcessPending(ctx, a.cfg.ExportBatchSize)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d pending jobs\n", processed)
	return nil
}

// categorySlugs maps every visible category id to its slug, across both
// kinds, for table rendering.
func (a *app) categorySlugs(ctx context.Context) (map[uuid.UUID]string, error) {
	slugs := make(map[uuid.UUID]string)
	for _, kind := range []core.TransactionKind{core.Expense, core.Income} {
		list, err := a.categories.ListByKind(ctx, a.user, kind)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			slugs[c.ID] = c.Slug
		}
	}
	return slugs, nil
}

func resolveMonth(s string) (core.MonthStart, error) {
	if s == "" {
		now := time.Now().UTC()
		return core.MonthStart{Year: now.Year(), Month: now.Month()}, nil
	}
	return core.ParseMonth(s)
}

func parseAmount(name, s string) (core.Money, error) {
	if s == "" {
		return core.Money{}, fmt.Errorf("missing required -%s", name)
	}
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("%s %q: %w", name, s, err)
	}
	return core.Money{Cents: cents}, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return day, nil
}

func transactionKind(income bool) core.TransactionKind {
	if income {
		return core.Income
	}
	return core.Expense
}
