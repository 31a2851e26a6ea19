package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

// maxOccurrencesPerRule bounds catch-up within one run so a rule that
// sat dormant for years cannot flood the ledger in a single pass; the
// remainder is picked up by the next run.
const maxOccurrencesPerRule = 120

// RecurringProcessor materializes transactions from recurring rules.
type RecurringProcessor struct {
	storage      *storage.SQLiteRepository
	transactions *TransactionService
}

// NewRecurringProcessor creates a new recurring rule processor.
func NewRecurringProcessor(storage *storage.SQLiteRepository, transactions *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		storage:      storage,
		transactions: transactions,
	}
}

// ProcessDueRules walks every active rule due on or before asOf and
// records one transaction per missed occurrence, advancing the rule's
// next due date as it goes. Returns the number of transactions created.
func (p *RecurringProcessor) ProcessDueRules(ctx context.Context, asOf time.Time) (int, error) {
	if p.storage == nil || p.transactions == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	rules, err := p.storage.ListDueRecurringRules(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to get due recurring rules: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring rules",
		"total_due", len(rules),
		"processing_date", asOf.Format("2006-01-02"))

	created := 0

	for _, rule := range rules {
		n, err := p.processRule(ctx, rule, asOf)
		created += n
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process recurring rule",
				"rule_id", rule.ID.String(),
				"frequency", rule.Frequency,
				"error", err)
			continue
		}
	}

	slog.InfoContext(ctx, "Recurring rule processing complete",
		"created", created,
		"rules_checked", len(rules))

	return created, nil
}

// processRule catches one rule up to asOf. Every occurrence advances
// the stored next due date before the next one is attempted, so a
// failure mid-loop leaves the rule pointing at the first unrecorded
// occurrence.
func (p *RecurringProcessor) processRule(ctx context.Context, rule core.RecurringRule, asOf time.Time) (int, error) {
	advancer, err := GetScheduleAdvancer(rule.Frequency)
	if err != nil {
		return 0, err
	}

	user, err := p.storage.GetUserByID(ctx, rule.UserID)
	if err != nil {
		return 0, fmt.Errorf("resolve rule owner: %w", err)
	}

	created := 0
	due := rule.NextDueDate

	for !due.After(asOf) {
		if created >= maxOccurrencesPerRule {
			slog.WarnContext(ctx, "Recurring rule hit per-run occurrence bound",
				"rule_id", rule.ID.String(),
				"next_due", due.Format("2006-01-02"))
			break
		}

		transaction := core.Transaction{
			CategoryID:      rule.CategoryID,
			Kind:            rule.Kind,
			Amount:          rule.Amount,
			OccurredOn:      due,
			Merchant:        rule.Merchant,
			Note:            rule.Note,
			RecurringRuleID: rule.ID,
		}

		if _, err := p.transactions.Record(ctx, user, transaction); err != nil {
			return created, fmt.Errorf("record occurrence due %s: %w", due.Format("2006-01-02"), err)
		}
		created++

		due = advancer.NextDue(due, rule.AnchorDate)
		if err := p.storage.AdvanceRecurringRule(ctx, rule.ID, due); err != nil {
			return created, fmt.Errorf("advance rule: %w", err)
		}
	}

	if created > 0 {
		slog.InfoContext(ctx, "Created transactions from recurring rule",
			"rule_id", rule.ID.String(),
			"count", created,
			"amount_cents", rule.Amount.Cents,
			"frequency", rule.Frequency,
			"next_due", due.Format("2006-01-02"))
	}

	return created, nil
}
