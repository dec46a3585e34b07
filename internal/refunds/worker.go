package refunds

import (
	"context"
	"time"

	"salonly/pkg/logger"
)

// Worker re-drives refund dispatches that failed their first publish or were
// created while Kafka was unavailable.
type Worker struct {
	service Service
	config  *WorkerConfig
	done    chan struct{}
}

// WorkerConfig contains configuration for the reconciliation worker
type WorkerConfig struct {
	Interval  time.Duration
	BatchSize int
}

// DefaultWorkerConfig returns default worker configuration
func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		Interval:  30 * time.Second,
		BatchSize: 50,
	}
}

// NewWorker creates a new reconciliation worker
func NewWorker(service Service, config *WorkerConfig) *Worker {
	if config == nil {
		config = DefaultWorkerConfig()
	}
	return &Worker{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts the reconciliation loop
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
	logger.GetDefault().InfoWithContext(ctx, "refund reconciliation worker started", map[string]interface{}{
		"interval":   w.config.Interval.String(),
		"batch_size": w.config.BatchSize,
	})
}

// Stop stops the reconciliation loop
func (w *Worker) Stop() {
	close(w.done)
}

func (w *Worker) run(ctx context.Context) {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.redrive(ctx)
		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) redrive(ctx context.Context) {
	published, err := w.service.Redrive(ctx, w.config.BatchSize)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "refund redrive failed", err, nil)
		return
	}

	if published > 0 {
		logger.GetDefault().InfoWithContext(ctx, "redrove refund dispatches", map[string]interface{}{
			"published": published,
		})
	}
}
