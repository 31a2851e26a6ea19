package core

import (
	"fmt"
	"strings"
	"time"
)

// Export payloads. These are the JSON documents stored in the export
// outbox and handed to whichever export backend is configured, so every
// field is a plain string or integer and dates are pre-formatted.

// PlanExportRow is one category line of an exported budget plan.
type PlanExportRow struct {
	CategoryID     string `json:"category_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	IsFixed        bool   `json:"is_fixed"`
	IsUserModified bool   `json:"is_user_modified"`
	LimitCents     int64  `json:"limit_cents"`
}

// PlanExport is a full budget plan snapshot for one month.
type PlanExport struct {
	UserEmail  string          `json:"user_email"`
	Month      string          `json:"month"`
	Currency   string          `json:"currency"`
	Strategy   string          `json:"strategy"`
	TotalCents int64           `json:"total_cents"`
	Rows       []PlanExportRow `json:"rows"`
}

// TransactionExport is a single transaction row destined for an export
// backend. OccurredOn uses the YYYY-MM-DD layout.
type TransactionExport struct {
	ID           string `json:"id"`
	UserEmail    string `json:"user_email"`
	CategorySlug string `json:"category_slug"`
	CategoryName string `json:"category_name"`
	Kind         string `json:"kind"`
	AmountCents  int64  `json:"amount_cents"`
	OccurredOn   string `json:"occurred_on"`
	Merchant     string `json:"merchant"`
	Note         string `json:"note"`
}

func (p PlanExport) Validate() error {
	if _, err := ParseMonth(p.Month); err != nil {
		return fmt.Errorf("month %q: %w", p.Month, err)
	}
	if p.TotalCents <= 0 {
		return ErrInvalidTotal
	}
	if len(p.Rows) == 0 {
		return ErrEmptyScope
	}
	for _, r := range p.Rows {
		if r.LimitCents < 0 {
			return fmt.Errorf("category %s: %w", r.Slug, ErrNegativeLimit)
		}
	}
	return nil
}

func (t TransactionExport) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("missing transaction id")
	}
	if err := TransactionKind(t.Kind).Validate(); err != nil {
		return err
	}
	if t.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse("2006-01-02", t.OccurredOn); err != nil {
		return fmt.Errorf("occurred on %q: not a calendar date", t.OccurredOn)
	}
	if strings.TrimSpace(t.CategorySlug) == "" {
		return fmt.Errorf("missing category slug")
	}
	return nil
}
