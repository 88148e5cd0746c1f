package services

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"gorm.io/gorm"
)

// EventOrderStatusChanged is fired after any post-creation status change.
const EventOrderStatusChanged = "order.status_changed"

// orderTransitions is the post-creation state machine: forward fulfilment
// progression, cancellation from the two early states, and refund as an
// administrative override from anywhere.
var orderTransitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled, models.OrderRefunded},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled, models.OrderRefunded},
	models.OrderShipped:    {models.OrderDelivered, models.OrderRefunded},
	models.OrderDelivered:  {models.OrderRefunded},
	models.OrderCancelled:  {models.OrderRefunded},
	models.OrderRefunded:   {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

var paymentStatuses = map[string]bool{
	models.PaymentPending: true, models.PaymentPaid: true,
	models.PaymentFailed: true, models.PaymentRefunded: true,
}

var fulfillmentStatuses = map[string]bool{
	models.FulfillmentNone: true, models.FulfillmentPartial: true,
	models.FulfillmentFulfilled: true,
}

// UpdateStatusInput carries the administrative status patch. Nil fields are
// left untouched.
type UpdateStatusInput struct {
	Status            *string `json:"status,omitempty"`
	PaymentStatus     *string `json:"payment_status,omitempty"`
	FulfillmentStatus *string `json:"fulfillment_status,omitempty"`
	AdminMessage      *string `json:"admin_message,omitempty"`
}

// Orders governs every legal change to an order after creation. Creation
// itself belongs to Checkout; nothing else in the system mutates orders or
// compensates stock.
type Orders struct {
	db *gorm.DB
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db}
}

// Find loads one order with its items.
func (s *Orders) Find(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("unknown order %d", id)
	}
	if err != nil {
		return nil, persistence("order read", err)
	}
	return &order, nil
}

// Cancel moves the order to cancelled and compensates the stock decrement
// performed at creation. Legal from any status except cancelled itself.
//
// The status change is committed first and is the operation that must
// succeed; restoration runs afterwards in its own all-or-nothing
// transaction, and a failure there is logged and left for the
// reconciliation sweep rather than blocking the cancellation.
func (s *Orders) Cancel(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Find(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderCancelled {
		return nil, &InvalidTransitionError{From: order.Status, To: models.OrderCancelled}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.OrderCancelled,
		"cancelled_at": now,
	}
	if err := s.db.WithContext(ctx).Model(order).Updates(updates).Error; err != nil {
		return nil, persistence("order cancel", err)
	}
	order.Status = models.OrderCancelled
	order.CancelledAt = &now

	if err := s.RestoreStock(ctx, order); err != nil {
		logger.Error("orders: stock restoration failed, leaving for reconciliation",
			"order", order.Number, "error", err)
	} else {
		metrics.StockRestorations.WithLabelValues("cancel").Inc()
	}

	s.notifyStatusChange(order)
	return order, nil
}

// RestoreStock re-applies each item's quantity to its variant's ledger in a
// single transaction and marks the order restored. Exactly-once: the
// StockRestored flag guards both this path and the reconciliation sweep, and
// the transaction guarantees no partial compensation is ever left behind.
func (s *Orders) RestoreStock(ctx context.Context, order *models.Order) error {
	if order.StockRestored {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if item.VariantID == nil {
				continue
			}
			if err := restoreVariantStock(tx, *item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("stock_restored", true).Error
	})
	if err != nil {
		return persistence("stock restoration", err)
	}

	order.StockRestored = true
	return nil
}

// UpdateStatus applies an administrative patch. A status move to cancelled
// goes through Cancel so stock compensation happens; any other move is
// checked against the transition table. A notification is dispatched only
// when the status or the admin message actually changed.
func (s *Orders) UpdateStatus(ctx context.Context, orderID uint, in UpdateStatusInput) (*models.Order, error) {
	order, err := s.Find(orderID)
	if err != nil {
		return nil, err
	}

	changed := false
	updates := map[string]interface{}{}

	if in.Status != nil && *in.Status != order.Status {
		if *in.Status == models.OrderCancelled {
			if order, err = s.Cancel(ctx, orderID); err != nil {
				return nil, err
			}
		} else {
			if !CanTransition(order.Status, *in.Status) {
				return nil, &InvalidTransitionError{From: order.Status, To: *in.Status}
			}
			updates["status"] = *in.Status
			order.Status = *in.Status
			changed = true
		}
	}

	if in.PaymentStatus != nil && *in.PaymentStatus != order.PaymentStatus {
		if !paymentStatuses[*in.PaymentStatus] {
			return nil, validationf("unknown payment status %q", *in.PaymentStatus)
		}
		updates["payment_status"] = *in.PaymentStatus
		order.PaymentStatus = *in.PaymentStatus
	}

	if in.FulfillmentStatus != nil && *in.FulfillmentStatus != order.FulfillmentStatus {
		if !fulfillmentStatuses[*in.FulfillmentStatus] {
			return nil, validationf("unknown fulfillment status %q", *in.FulfillmentStatus)
		}
		updates["fulfillment_status"] = *in.FulfillmentStatus
		order.FulfillmentStatus = *in.FulfillmentStatus
	}

	if in.AdminMessage != nil && *in.AdminMessage != order.AdminMessage {
		updates["admin_message"] = *in.AdminMessage
		order.AdminMessage = *in.AdminMessage
		changed = true
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Order{}).
			Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return nil, persistence("order update", err)
		}
	}

	if changed {
		s.notifyStatusChange(order)
	}
	return order, nil
}

// Delete hard-removes an order: items first, then the header. Administrative
// only — it performs no stock restoration and assumes the order was already
// cancelled or refunded.
func (s *Orders) Delete(ctx context.Context, orderID uint) error {
	order, err := s.Find(orderID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("order_id = ?", order.ID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Order{}, order.ID).Error
	})
	if err != nil {
		return persistence("order delete", err)
	}
	return nil
}

func (s *Orders) notifyStatusChange(order *models.Order) {
	if err := queue.Dispatch(&jobs.OrderStatusJob{OrderID: order.ID}); err != nil {
		logger.Error("orders: status notification dispatch failed",
			"order", order.Number, "error", err)
	}
	event.FireAsync(EventOrderStatusChanged, order)
}

// restoreVariantStock credits qty back to the variant's ledger: onto its
// lowest-id location row, or a fresh row at the first known location when
// the variant has none left.
func restoreVariantStock(tx *gorm.DB, variantID uint, qty int) error {
	var record models.InventoryRecord
	err := tx.Where("variant_id = ?", variantID).
		Order("location_id ASC").First(&record).Error

	switch {
	case err == nil:
		return tx.Model(&record).
			Update("available", gorm.Expr("available + ?", qty)).Error

	case errors.Is(err, gorm.ErrRecordNotFound):
		location, lerr := defaultLocation(tx)
		if lerr != nil {
			return lerr
		}
		return tx.Create(&models.InventoryRecord{
			VariantID:  variantID,
			LocationID: location.ID,
			Available:  qty,
		}).Error

	default:
		return err
	}
}

func defaultLocation(tx *gorm.DB) (*models.Location, error) {
	var location models.Location
	err := tx.Order("id ASC").First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		location = models.Location{Name: "Default"}
		err = tx.Create(&location).Error
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}
