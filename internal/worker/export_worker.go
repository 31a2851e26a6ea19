// Package worker runs the background side of the export pipeline: an
// AMQP consumer that reacts to freshly queued outbox jobs, plus a
// periodic sweep that drains anything a lost notification left behind.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/James-hg/MountMadness2026/internal/amqp"
	"github.com/James-hg/MountMadness2026/internal/services"
)

// ExportWorkerConfig holds configuration for the export worker
type ExportWorkerConfig struct {
	// SweepInterval is how often to sweep the outbox for pending jobs (default: 30s)
	SweepInterval time.Duration

	// BatchSize is the max number of jobs to process per sweep (default: 25)
	BatchSize int
}

// DefaultExportWorkerConfig returns sensible defaults
func DefaultExportWorkerConfig() ExportWorkerConfig {
	return ExportWorkerConfig{
		SweepInterval: 30 * time.Second,
		BatchSize:     25,
	}
}

// ExportWorker drains the export outbox. AMQP notifications give low
// latency; the sweep guarantees delivery when messages are lost or the
// broker is down. The client may be nil, in which case only the sweep
// runs.
type ExportWorker struct {
	processor *services.ExportProcessor
	client    *amqp.Client
	config    ExportWorkerConfig

	// Lifecycle management
	mu             sync.Mutex
	running        bool
	stopCh         chan struct{}
	doneCh         chan struct{}
	cancelConsumer context.CancelFunc
}

// NewExportWorker creates a new export worker
func NewExportWorker(processor *services.ExportProcessor, client *amqp.Client, config ExportWorkerConfig) *ExportWorker {
	return &ExportWorker{
		processor: processor,
		client:    client,
		config:    config,
	}
}

// Start begins consuming and sweeping. Returns an error if already running.
func (w *ExportWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("export worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	// Catch up on anything queued while the worker was down.
	processed, err := w.processor.ProcessPending(ctx, w.config.BatchSize*5)
	if err != nil {
		slog.WarnContext(ctx, "Startup outbox sweep failed", "error", err)
	} else if processed > 0 {
		slog.InfoContext(ctx, "Startup outbox sweep completed", "processed", processed)
	}

	if w.client != nil {
		consumerCtx, cancel := context.WithCancel(ctx)
		w.mu.Lock()
		w.cancelConsumer = cancel
		w.mu.Unlock()
		go w.consume(consumerCtx)
	} else {
		slog.InfoContext(ctx, "AMQP client not available, relying on periodic sweeps only")
	}

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Export worker started",
		"sweep_interval", w.config.SweepInterval,
		"batch_size", w.config.BatchSize)

	return nil
}

// Stop gracefully stops the worker and waits for the sweep loop to exit.
func (w *ExportWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	cancel := w.cancelConsumer
	w.mu.Unlock()

	// Signal stop
	close(w.stopCh)
	if cancel != nil {
		cancel()
	}

	// Wait for completion or context cancellation
	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Export worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Export worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning returns whether the worker is currently running
func (w *ExportWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// consume blocks on the AMQP queue, handing each notification to the
// processor. Handler failures are nacked and requeued by the client.
func (w *ExportWorker) consume(ctx context.Context) {
	err := w.client.ConsumeExports(ctx, func(msg *amqp.ExportMessage) error {
		return w.processor.ProcessJob(ctx, msg.ID)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.ErrorContext(ctx, "Export consumer stopped", "error", err)
	}
}

// runLoop is the periodic sweep loop
func (w *ExportWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep processes a single batch of pending outbox jobs
func (w *ExportWorker) sweep(ctx context.Context) {
	processed, err := w.processor.ProcessPending(ctx, w.config.BatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "Outbox sweep failed", "error", err)
		return
	}
	if processed > 0 {
		slog.InfoContext(ctx, "Outbox sweep drained jobs", "count", processed)
	}
}
