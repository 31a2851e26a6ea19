package core

import "github.com/google/uuid"

// BudgetStatus classifies how a category's month-to-date spend compares
// to its allocated limit.
type BudgetStatus string

const (
	StatusNoLimit   BudgetStatus = "no_limit"
	StatusOK        BudgetStatus = "ok"
	StatusWarning   BudgetStatus = "warning"
	StatusOverspent BudgetStatus = "overspent"
)

// BudgetLine is one category row of a month summary.
type BudgetLine struct {
	CategoryID     uuid.UUID
	Name           string
	Slug           string
	IsFixed        bool
	IsUserModified bool
	Limit          Money
	Spent          Money
	Remaining      Money
	Status         BudgetStatus
}

// MonthSummary is the per-category budget picture for one month.
type MonthSummary struct {
	MonthStart MonthStart
	Currency   string
	Total      Money
	Strategy   string
	TotalSpent Money
	Lines      []BudgetLine
}

// StatusFor classifies spend against a limit. A zero (or negative) limit
// means the category carries no effective budget this month. The warning
// threshold is 80% of the limit, overspent is 100% or more.
func StatusFor(limit, spent Money) BudgetStatus {
	if limit.Cents <= 0 {
		return StatusNoLimit
	}
	if spent.Cents >= limit.Cents {
		return StatusOverspent
	}
	if spent.Cents*5 >= limit.Cents*4 {
		return StatusWarning
	}
	return StatusOK
}
