package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/workerpool"
	"gorm.io/gorm"
)

// Reconciler is the safety net behind best-effort cancellation: it finds
// cancelled orders whose stock compensation never landed and re-applies it.
// Runs daily from the scheduler and on demand via `vastra reconcile:stock`.
type Reconciler struct {
	db     *gorm.DB
	orders *Orders
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, orders: NewOrders(db)}
}

// SweepCancelledOrders restores stock for every cancelled, unrestored order,
// a bounded number at a time. Returns how many orders were restored; per-
// order failures are logged and retried on the next sweep.
func (r *Reconciler) SweepCancelledOrders(ctx context.Context) (int, error) {
	var pending []models.Order
	err := r.db.Preload("Items").
		Where("status = ? AND stock_restored = ?", models.OrderCancelled, false).
		Find(&pending).Error
	if err != nil {
		return 0, persistence("reconciliation scan", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	pool := workerpool.New(4)
	defer pool.Shutdown()

	var restored atomic.Int64
	var wg sync.WaitGroup
	for i := range pending {
		order := &pending[i]
		wg.Add(1)
		submitErr := pool.SubmitWait(func() {
			defer wg.Done()
			if err := r.orders.RestoreStock(ctx, order); err != nil {
				logger.Error("reconcile: restoration failed",
					"order", order.Number, "error", err)
				return
			}
			restored.Add(1)
			metrics.StockRestorations.WithLabelValues("sweep").Inc()
		})
		if submitErr != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()

	logger.Info("reconcile: sweep complete",
		"scanned", len(pending), "restored", restored.Load())
	return int(restored.Load()), nil
}
