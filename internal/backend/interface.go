package backend

import (
	"context"

	"github.com/James-hg/MountMadness2026/internal/sheets"
)

// Backend is the export destination the worker writes to.
type Backend interface {
	sheets.Exporter
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates export backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Google Sheets specific
	GoogleSpreadsheetID         string
	GooglePlanSheetName         string
	GoogleSummarySheetName      string
	GoogleTransactionsSheetName string
	GoogleOAuthClientFile       string
	GoogleOAuthTokenFile        string
	GoogleOAuthClientJSON       string
	GoogleOAuthTokenJSON        string
}

// BackendType represents the export destination
type BackendType string

const (
	GoogleBackend   BackendType = "google"
	MemoryBackend   BackendType = "memory"
	DisabledBackend BackendType = "disabled"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case GoogleBackend, MemoryBackend, DisabledBackend:
		return true
	default:
		return false
	}
}
