package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/sheets"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

// ExportProcessor pushes queued outbox rows to the configured export
// backend. It serves both delivery paths: AMQP notifications handled one
// job at a time, and the periodic sweep over rows whose notification
// was lost.
type ExportProcessor struct {
	storage  *storage.SQLiteRepository
	exporter sheets.Exporter
}

// NewExportProcessor creates a new export processor.
func NewExportProcessor(storage *storage.SQLiteRepository, exporter sheets.Exporter) *ExportProcessor {
	return &ExportProcessor{
		storage:  storage,
		exporter: exporter,
	}
}

// ProcessJob loads one outbox row and pushes it to the backend. A row
// that no longer exists counts as handled; duplicate notifications for
// completed rows are harmless.
func (p *ExportProcessor) ProcessJob(ctx context.Context, id int64) error {
	if p.storage == nil || p.exporter == nil {
		return fmt.Errorf("processor not properly initialized")
	}

	job, err := p.storage.GetExportJob(ctx, id)
	if errors.Is(err, core.ErrExportNotFound) {
		slog.WarnContext(ctx, "Export job not found, assuming already handled", "id", id)
		return nil
	}
	if err != nil {
		return err
	}

	return p.process(ctx, job)
}

// ProcessPending sweeps up to limit pending rows. Notification loss is
// expected (AMQP down, worker restart mid-batch); the sweep is what
// makes the outbox reliable. Returns how many rows were exported.
func (p *ExportProcessor) ProcessPending(ctx context.Context, limit int) (int, error) {
	if p.storage == nil || p.exporter == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	jobs, err := p.storage.ListPendingExports(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list pending exports: %w", err)
	}

	if len(jobs) == 0 {
		return 0, nil
	}

	slog.DebugContext(ctx, "Processing pending exports", "count", len(jobs))

	processed := 0
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return processed, ctx.Err()
		default:
		}

		if err := p.process(ctx, job); err != nil {
			slog.ErrorContext(ctx, "Failed to process pending export",
				"id", job.ID,
				"kind", job.Kind,
				"error", err)
			continue
		}
		processed++
	}

	return processed, nil
}

// process dispatches one job and records the outcome on the outbox row.
func (p *ExportProcessor) process(ctx context.Context, job core.ExportJob) error {
	if err := p.dispatch(ctx, job); err != nil {
		if markErr := p.storage.MarkExportError(ctx, job.ID, err); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				"id", job.ID, "error", markErr)
		}
		return fmt.Errorf("export job %d (%s): %w", job.ID, job.Kind, err)
	}

	if err := p.storage.MarkExportDone(ctx, job.ID); err != nil {
		// The write reached the backend; a redelivery would append a
		// duplicate row, so surface this loudly.
		return fmt.Errorf("mark export %d done: %w", job.ID, err)
	}

	slog.InfoContext(ctx, "Export job completed",
		"id", job.ID,
		"kind", job.Kind,
		"attempts", job.Attempts+1)

	return nil
}

// dispatch decodes the payload by kind and performs the backend write.
func (p *ExportProcessor) dispatch(ctx context.Context, job core.ExportJob) error {
	switch job.Kind {
	case core.ExportPlan:
		var plan core.PlanExport
		if err := json.Unmarshal(job.Payload, &plan); err != nil {
			return fmt.Errorf("decode plan payload: %w", err)
		}
		if err := p.exporter.WritePlan(ctx, plan); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		// A new plan moves every remaining figure, so the summary sheet
		// is refreshed along with it.
		if err := p.writeSummary(ctx, job.UserID, plan.Month); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		return nil

	case core.ExportTransaction:
		var transaction core.TransactionExport
		if err := json.Unmarshal(job.Payload, &transaction); err != nil {
			return fmt.Errorf("decode transaction payload: %w", err)
		}
		ref, err := p.exporter.AppendTransaction(ctx, transaction)
		if err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		slog.InfoContext(ctx, "Transaction exported",
			"transaction_id", transaction.ID,
			"ref", ref)
		return nil

	default:
		return fmt.Errorf("unknown export kind: %s", job.Kind)
	}
}

// writeSummary rebuilds the month summary from storage and replaces the
// backend's summary sheet. Both writes are replace-semantics, so a
// retried plan job repeats them harmlessly.
func (p *ExportProcessor) writeSummary(ctx context.Context, userID uuid.UUID, monthLabel string) error {
	month, err := core.ParseMonth(monthLabel)
	if err != nil {
		return err
	}
	user, err := p.storage.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	summary, err := loadMonthSummary(ctx, p.storage, user, month)
	if err != nil {
		return err
	}
	return p.exporter.WriteSummary(ctx, summary)
}
