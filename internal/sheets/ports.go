package sheets

import (
	"context"

	"github.com/James-hg/MountMadness2026/internal/core"
)

// Ports for outbound export adapters.
type (
	// PlanWriter replaces the exported plan for the plan's month.
	PlanWriter interface {
		WritePlan(ctx context.Context, p core.PlanExport) error
	}

	// TransactionWriter appends one transaction row and returns a
	// backend-specific reference to where it landed.
	TransactionWriter interface {
		AppendTransaction(ctx context.Context, t core.TransactionExport) (rowRef string, err error)
	}

	// SummaryWriter publishes a month summary snapshot next to the plan.
	SummaryWriter interface {
		WriteSummary(ctx context.Context, s core.MonthSummary) error
	}

	// Exporter bundles every write the export worker performs.
	Exporter interface {
		PlanWriter
		TransactionWriter
		SummaryWriter
	}
)
