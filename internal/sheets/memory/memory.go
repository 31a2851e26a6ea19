package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/James-hg/MountMadness2026/internal/core"

	ports "github.com/James-hg/MountMadness2026/internal/sheets"
)

// Store is an in-memory export backend used for local development and
// tests. Plans and summaries are kept per month so callers can inspect
// what would have reached a real spreadsheet.
type Store struct {
	mu        sync.Mutex
	plans     map[string]core.PlanExport
	summaries map[string]core.MonthSummary
	txs       []core.TransactionExport
}

var _ ports.Exporter = (*Store)(nil)

func New() *Store {
	return &Store{
		plans:     map[string]core.PlanExport{},
		summaries: map[string]core.MonthSummary{},
	}
}

// WritePlan replaces the stored plan for the plan's month.
func (s *Store) WritePlan(_ context.Context, p core.PlanExport) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Rows = append([]core.PlanExportRow(nil), p.Rows...)
	s.plans[p.Month] = p
	return nil
}

// AppendTransaction stores the transaction and returns a synthetic row reference.
func (s *Store) AppendTransaction(_ context.Context, t core.TransactionExport) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, t)
	return fmt.Sprintf("mem:%d", len(s.txs)), nil
}

// WriteSummary replaces the stored summary for the summary's month.
func (s *Store) WriteSummary(_ context.Context, sum core.MonthSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum.Lines = append([]core.BudgetLine(nil), sum.Lines...)
	s.summaries[sum.MonthStart.Label()] = sum
	return nil
}

// Plan returns the stored plan for a month label like "2026-09".
func (s *Store) Plan(month string) (core.PlanExport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[month]
	return p, ok
}

// Summary returns the stored summary for a month label.
func (s *Store) Summary(month string) (core.MonthSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.summaries[month]
	return sum, ok
}

// Transactions returns the stored transactions in append order.
func (s *Store) Transactions() []core.TransactionExport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.TransactionExport(nil), s.txs...)
}
