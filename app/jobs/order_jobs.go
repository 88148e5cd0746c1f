// Package jobs defines the background jobs dispatched by the order paths.
// Every job here is fire-and-forget from the caller's point of view: the
// queue retries failures and persists exhausted jobs, and nothing produced
// here ever propagates back to a checkout response.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/notifications"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/notification"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

// Register makes all job types known to the queue for deserialisation.
// Call once at boot, before workers start.
func Register() {
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
	queue.Register("*jobs.OrderStatusJob", func() queue.Job { return &OrderStatusJob{} })
	queue.Register("*jobs.LowStockAlertJob", func() queue.Job { return &LowStockAlertJob{} })
}

// OrderConfirmationJob emails the buyer after a successful checkout.
type OrderConfirmationJob struct {
	OrderID uint `json:"order_id"`
}

func (j *OrderConfirmationJob) Handle() error {
	order, err := loadOrder(j.OrderID)
	if err != nil {
		return err
	}

	if errs := notification.Send(order.Email, &notifications.OrderConfirmation{Order: order}); len(errs) > 0 {
		return fmt.Errorf("order confirmation for %s: %v", order.Number, errs[0])
	}
	return nil
}

// OrderStatusJob emails the buyer a snapshot of the order after a status or
// admin-message change.
type OrderStatusJob struct {
	OrderID uint `json:"order_id"`
}

func (j *OrderStatusJob) Handle() error {
	order, err := loadOrder(j.OrderID)
	if err != nil {
		return err
	}

	if errs := notification.Send(order.Email, &notifications.OrderStatusUpdate{Order: order}); len(errs) > 0 {
		return fmt.Errorf("status update for %s: %v", order.Number, errs[0])
	}
	return nil
}

// LowStockAlertJob pings the operations Slack channel when a checkout leaves
// a variant at or below the low-stock threshold.
type LowStockAlertJob struct {
	VariantID uint   `json:"variant_id"`
	SKU       string `json:"sku"`
	Remaining int    `json:"remaining"`
}

func (j *LowStockAlertJob) Handle() error {
	alert := &notifications.LowStockAlert{
		SKU:       j.SKU,
		Remaining: j.Remaining,
	}
	if errs := notification.Send("", alert); len(errs) > 0 {
		return fmt.Errorf("low stock alert for %s: %v", j.SKU, errs[0])
	}
	return nil
}

func loadOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := database.DB.Preload("Items").First(&order, id).Error; err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}
