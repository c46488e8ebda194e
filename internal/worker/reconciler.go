package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/collinsmw/boutique/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by
// the reconciler.
type PaymentFacade interface {
	UnreconciledOrders(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error)
	ReconcileOrder(ctx context.Context, orderID string)
}

// Reconciler periodically sweeps initialized but unpaid orders and re-checks
// them against the payment gateway, covering webhook deliveries that never
// arrived.
type Reconciler struct {
	facade       PaymentFacade
	pollInterval time.Duration
	grace        time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the sweep worker pool.
func NewReconciler(facade PaymentFacade, pollInterval, grace time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:       facade,
		pollInterval: pollInterval,
		grace:        grace,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	cutoff := time.Now().Add(-r.grace)
	orders, err := r.facade.UnreconciledOrders(ctx, cutoff, r.batchSize)
	if err != nil {
		r.logger.Error("fetch unreconciled orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-r.jobs:
			if !ok {
				return
			}
			r.facade.ReconcileOrder(ctx, order.ID)
		}
	}
}
