package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gsheet "github.com/James-hg/MountMadness2026/internal/sheets/google"
	"github.com/James-hg/MountMadness2026/internal/sheets/memory"
)

// ErrExportsDisabled is returned when the configured backend is "disabled".
// Callers that hit it should skip export processing entirely.
var ErrExportsDisabled = errors.New("exports are disabled")

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case GoogleBackend:
		return f.createGoogleBackend(ctx)
	case MemoryBackend:
		return f.createMemoryBackend()
	case DisabledBackend:
		return nil, ErrExportsDisabled
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createGoogleBackend(ctx context.Context) (*BackendResult, error) {
	// The sheets client reads its spreadsheet id, sheet names and OAuth
	// material from the environment; Validate checked they are present.
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets export backend")

	return &BackendResult{
		Backend: cli,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store := memory.New()

	f.logger.Info("Initialized memory export backend")

	return &BackendResult{
		Backend: store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
