package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

const (
	Expense TransactionKind = "expense"
	Income  TransactionKind = "income"
)

const (
	ExportPlan        ExportKind = "plan"
	ExportTransaction ExportKind = "transaction"
)

// StrategyDefaultWeights tags allocations produced by the built-in
// weight/floor/cap algorithm.
const StrategyDefaultWeights = "default_weights_v1"

// DefaultCurrency is the fallback currency for monthly budget totals.
const DefaultCurrency = "CAD"

type (
	Frequency string

	TransactionKind string

	Money struct {
		Cents int64
	}

	// MonthStart anchors budget data to a calendar month. It always
	// denotes the first day of that month.
	MonthStart struct {
		Year  int
		Month time.Month
	}

	// User is the owner of a ledger. The CLI resolves the operator by
	// email and creates the row on first use.
	User struct {
		ID          uuid.UUID
		Email       string
		DisplayName string
		Currency    string
	}

	Category struct {
		ID       uuid.UUID
		OwnerID  uuid.UUID // zero for system categories
		Name     string
		Slug     string
		Kind     TransactionKind
		IsSystem bool
	}

	Transaction struct {
		ID              uuid.UUID
		UserID          uuid.UUID
		CategoryID      uuid.UUID
		Kind            TransactionKind
		Amount          Money
		OccurredOn      time.Time
		Merchant        string
		Note            string
		RecurringRuleID uuid.UUID // zero when recorded manually
	}

	// MonthlyBudgetTotal is the user-set (or derived) budget envelope for
	// one calendar month.
	MonthlyBudgetTotal struct {
		UserID     uuid.UUID
		MonthStart MonthStart
		Total      Money
		Currency   string
		Strategy   string
	}

	// CategoryBudget is one allocated per-category limit for a month.
	// Rows flagged IsUserModified were overridden by the user and are
	// preserved across non-forced rebalances.
	CategoryBudget struct {
		UserID         uuid.UUID
		CategoryID     uuid.UUID
		MonthStart     MonthStart
		Limit          Money
		IsUserModified bool
	}

	RecurringRule struct {
		ID          uuid.UUID
		UserID      uuid.UUID
		CategoryID  uuid.UUID
		Kind        TransactionKind
		Amount      Money
		Merchant    string
		Note        string
		Frequency   Frequency
		AnchorDate  time.Time
		NextDueDate time.Time
		IsActive    bool
	}

	ExportKind string

	// ExportJob is a queued export row waiting to be pushed to an
	// external backend. Payload is the serialized event envelope.
	ExportJob struct {
		ID       int64
		UserID   uuid.UUID
		Kind     ExportKind
		Payload  []byte
		Attempts int
	}
)

var (
	ErrInvalidTotal        = errors.New("invalid total budget amount")
	ErrEmptyScope          = errors.New("empty category scope")
	ErrInvalidMonthAnchor  = errors.New("month anchor must be the first day of a month")
	ErrUnresolvableTie     = errors.New("unresolvable allocation tie")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNegativeLimit       = errors.New("limit amount cannot be negative")
	ErrInvalidSlug         = errors.New("category name cannot produce a valid slug")
	ErrInvalidKind         = errors.New("invalid transaction kind")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRuleNotFound        = errors.New("recurring rule not found")
	ErrExportNotFound      = errors.New("export job not found")
)

// NewMonthStart builds a MonthStart from a date, which must be the first
// day of a month.
func NewMonthStart(t time.Time) (MonthStart, error) {
	if t.IsZero() || t.Day() != 1 {
		return MonthStart{}, ErrInvalidMonthAnchor
	}
	return MonthStart{Year: t.Year(), Month: t.Month()}, nil
}

// ParseMonth parses "2006-01" or "2006-01-01" into a MonthStart.
// Any other day of month is rejected.
func ParseMonth(s string) (MonthStart, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01", s); err == nil {
		return MonthStart{Year: t.Year(), Month: t.Month()}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return MonthStart{}, ErrInvalidMonthAnchor
	}
	return NewMonthStart(t)
}

func (m MonthStart) Validate() error {
	if m.Year <= 0 || m.Month < time.January || m.Month > time.December {
		return ErrInvalidMonthAnchor
	}
	return nil
}

// Date returns the first day of the month at midnight UTC.
func (m MonthStart) Date() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// EndExclusive returns the first day of the following month; the month
// window is [Date, EndExclusive).
func (m MonthStart) EndExclusive() time.Time {
	return m.Date().AddDate(0, 1, 0)
}

// AddMonths shifts the anchor by n calendar months (n may be negative).
func (m MonthStart) AddMonths(n int) MonthStart {
	t := m.Date().AddDate(0, n, 0)
	return MonthStart{Year: t.Year(), Month: t.Month()}
}

func (m MonthStart) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String renders the anchor date as stored, e.g. "2026-09-01".
func (m MonthStart) String() string {
	return m.Date().Format("2006-01-02")
}

// Label renders the human month form, e.g. "2026-09".
func (m MonthStart) Label() string {
	return m.Date().Format("2006-01")
}

func (k TransactionKind) Validate() error {
	switch k {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (f Frequency) Validate() error {
	switch f {
	case Weekly, Biweekly, Monthly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsNegative reports whether the amount is below zero. Allocated limits
// may be zero but never negative.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

func (c Category) Validate() error {
	if c.ID == uuid.Nil {
		return errors.New("category id cannot be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category name cannot be empty")
	}
	if len(c.Name) > 120 {
		return errors.New("category name too long (max 120 characters)")
	}
	if strings.TrimSpace(c.Slug) == "" {
		return ErrInvalidSlug
	}
	return c.Kind.Validate()
}

func (t Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("transaction user id cannot be empty")
	}
	if t.CategoryID == uuid.Nil {
		return errors.New("transaction category id cannot be empty")
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.OccurredOn.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	if len(t.Merchant) > 160 {
		return errors.New("merchant too long (max 160 characters)")
	}
	if len(t.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}

func (b MonthlyBudgetTotal) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("budget user id cannot be empty")
	}
	if err := b.MonthStart.Validate(); err != nil {
		return err
	}
	if b.Total.Cents <= 0 {
		return ErrInvalidTotal
	}
	if len(b.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	return nil
}

func (b CategoryBudget) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("budget user id cannot be empty")
	}
	if b.CategoryID == uuid.Nil {
		return errors.New("budget category id cannot be empty")
	}
	if err := b.MonthStart.Validate(); err != nil {
		return err
	}
	if b.Limit.IsNegative() {
		return ErrNegativeLimit
	}
	return nil
}

func (r RecurringRule) Validate() error {
	if r.UserID == uuid.Nil {
		return errors.New("rule user id cannot be empty")
	}
	if r.CategoryID == uuid.Nil {
		return errors.New("rule category id cannot be empty")
	}
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if r.AnchorDate.IsZero() {
		return errors.New("rule anchor date cannot be zero")
	}
	if len(r.Merchant) > 160 {
		return errors.New("merchant too long (max 160 characters)")
	}
	return nil
}
