package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/collection"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"github.com/shashiranjanraj/vastra/pkg/validate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Events fired by checkout. Listeners are registered at boot; firing never
// blocks the checkout response.
const (
	EventOrderPlaced = "order.placed"
	EventStockLow    = "stock.low"
)

// LowStock is the payload of EventStockLow.
type LowStock struct {
	VariantID uint   `json:"variant_id"`
	SKU       string `json:"sku"`
	Remaining int    `json:"remaining"`
}

// CheckoutItem is one candidate purchase line. Quantity is the only numeric
// field the client supplies — the unit price is always re-derived server
// side.
type CheckoutItem struct {
	ProductID uint  `json:"product_id" validate:"required"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"   validate:"required,gte=1"`
}

// CheckoutInput is the validated request shape for PlaceOrder.
type CheckoutInput struct {
	Email           string          `json:"email" validate:"required,email"`
	Items           []CheckoutItem  `json:"items"`
	ShippingAddress models.Address  `json:"shipping_address"`
	BillingAddress  *models.Address `json:"billing_address,omitempty"`
	PaymentMethod   string          `json:"payment_method" validate:"required,in=cod,upi,card,bank_transfer"`
	PaymentProof    string          `json:"payment_proof,omitempty" validate:"nullable,url"`

	// IdempotencyKey, when set, makes retries of the same logical checkout
	// return the originally committed order instead of a duplicate.
	IdempotencyKey string `json:"idempotency_key,omitempty" validate:"nullable,max=128"`
}

// Checkout turns a validated cart into a committed order. It is the sole
// writer of "an order now exists and stock is reserved": the stock re-check,
// the decrement and the order insert happen inside one database transaction,
// all-or-nothing. Everything the client sent about prices is ignored.
type Checkout struct {
	db       *gorm.DB
	settings *Settings
}

func NewCheckout(db *gorm.DB, settings *Settings) *Checkout {
	return &Checkout{db: db, settings: settings}
}

// PlaceOrder validates the cart, resolves authoritative prices, and commits
// the order atomically. Errors are typed: *ValidationError for caller
// mistakes, *InsufficientStockError naming the variant that lost the race,
// *PersistenceError for infrastructure failures.
func (s *Checkout) PlaceOrder(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, &ValidationError{Message: "invalid checkout request", Fields: errs}
	}
	if len(in.Items) == 0 {
		return nil, validationf("cart is empty")
	}
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return nil, validationf("item %d: quantity must be at least 1", i+1)
		}
	}

	if in.IdempotencyKey != "" {
		if existing, err := s.findByIdempotencyKey(in.IdempotencyKey); err != nil {
			return nil, err
		} else if existing != nil {
			return existing, nil
		}
	}

	order, err := s.buildOrder(in)
	if err != nil {
		return nil, err
	}

	var low []LowStock
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			item := &order.Items[i]
			if item.VariantID == nil {
				continue // untracked line — product has no variants
			}
			remaining, err := decrementStock(tx, *item.VariantID, item.SKU, item.Quantity)
			if err != nil {
				return err
			}
			low = appendLowStock(low, *item.VariantID, item.SKU, remaining)
		}
		return tx.Create(order).Error
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			metrics.CheckoutStockConflicts.Inc()
			return nil, stockErr
		}

		// A duplicate idempotency key means a concurrent retry won the
		// commit; hand back its order.
		if in.IdempotencyKey != "" {
			if existing, ferr := s.findByIdempotencyKey(in.IdempotencyKey); ferr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, persistence("order commit", err)
	}

	metrics.OrdersPlaced.Inc()
	metrics.OrderValue.Observe(order.Total)

	// Post-commit side effects are fire-and-forget: a slow or failing mail
	// path must never delay or fail the checkout response.
	if err := queue.Dispatch(&jobs.OrderConfirmationJob{OrderID: order.ID}); err != nil {
		logger.Error("checkout: confirmation dispatch failed", "order", order.Number, "error", err)
	}
	event.FireAsync(EventOrderPlaced, order)
	for _, l := range low {
		event.FireAsync(EventStockLow, l)
	}

	return order, nil
}

// buildOrder loads the referenced catalog rows in one batch and assembles
// the order header and item snapshots with server-derived prices.
func (s *Checkout) buildOrder(in CheckoutInput) (*models.Order, error) {
	ids := collection.Unique(collection.Map(in.Items, func(it CheckoutItem) uint { return it.ProductID }))

	var products []models.Product
	if err := s.db.Preload("Variants").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, persistence("catalog read", err)
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	order := &models.Order{
		Number:            uuid.New().String(),
		Email:             in.Email,
		Status:            models.OrderPending,
		PaymentStatus:     models.PaymentPending,
		FulfillmentStatus: models.FulfillmentNone,
		ShippingAddress:   in.ShippingAddress,
		BillingAddress:    in.BillingAddress,
		PaymentMethod:     in.PaymentMethod,
		PaymentProof:      in.PaymentProof,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		order.IdempotencyKey = &key
	}

	var subtotal float64
	for _, line := range in.Items {
		p, ok := byID[line.ProductID]
		if !ok {
			return nil, validationf("unknown product %d", line.ProductID)
		}
		if !p.Active {
			return nil, validationf("product %q is not available", p.Title)
		}

		var variant *models.Variant
		if line.VariantID != nil {
			variant = findVariant(p, *line.VariantID)
			if variant == nil {
				return nil, validationf("unknown variant %d for product %q", *line.VariantID, p.Title)
			}
			if !variant.Orderable() {
				return nil, validationf("variant %q of %q is not available", variant.Title(), p.Title)
			}
		} else if len(p.Variants) > 0 {
			return nil, validationf("product %q requires a variant selection", p.Title)
		}

		unit := UnitPriceFor(p, variant)
		item := models.OrderItem{
			ProductID:  p.ID,
			Title:      p.Title,
			SKU:        p.SKU,
			Quantity:   line.Quantity,
			UnitPrice:  unit,
			TotalPrice: roundMoney(unit * float64(line.Quantity)),
		}
		if len(p.Images) > 0 {
			item.ImageURL = p.Images[0].URL
		}
		if variant != nil {
			id := variant.ID
			item.VariantID = &id
			item.VariantTitle = variant.Title()
			item.SKU = variant.SKU
		}

		subtotal += item.TotalPrice
		order.Items = append(order.Items, item)
	}

	order.Subtotal = roundMoney(subtotal)
	if order.Subtotal < s.settings.FreeShippingThreshold() {
		order.ShippingTotal = s.settings.ShippingFlatFee()
	}
	order.TaxTotal = 0 // flat placeholder, no tax engine behind it
	order.Total = roundMoney(order.Subtotal + order.ShippingTotal + order.TaxTotal)

	return order, nil
}

func (s *Checkout) findByIdempotencyKey(key string) (*models.Order, error) {
	var existing models.Order
	err := s.db.Preload("Items").Where("idempotency_key = ?", key).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, persistence("idempotency lookup", err)
}

// decrementStock re-checks and reserves stock for one variant inside the
// checkout transaction. The ledger rows are read under a row lock (where the
// dialect supports one — SQLite serialises writers on its own), summed, and
// decremented walking locations in id order. Returns the remaining total.
//
// This is the only authority on overselling; every other stock read in the
// system is advisory.
func decrementStock(tx *gorm.DB, variantID uint, sku string, qty int) (int, error) {
	q := tx.Where("variant_id = ?", variantID).Order("location_id ASC")
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var records []models.InventoryRecord
	if err := q.Find(&records).Error; err != nil {
		return 0, fmt.Errorf("lock inventory for variant %d: %w", variantID, err)
	}

	total := 0
	for _, r := range records {
		total += r.Available
	}
	if total < qty {
		return 0, &InsufficientStockError{
			VariantID: variantID,
			SKU:       sku,
			Requested: qty,
			Available: total,
		}
	}

	remaining := qty
	for i := range records {
		if remaining == 0 {
			break
		}
		take := records[i].Available
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		records[i].Available -= take
		remaining -= take
		if err := tx.Model(&records[i]).Update("available", records[i].Available).Error; err != nil {
			return 0, fmt.Errorf("decrement inventory record %d: %w", records[i].ID, err)
		}
	}

	return total - qty, nil
}

func appendLowStock(low []LowStock, variantID uint, sku string, remaining int) []LowStock {
	if remaining > config.LowStockThreshold() {
		return low
	}
	return append(low, LowStock{VariantID: variantID, SKU: sku, Remaining: remaining})
}

func findVariant(p *models.Product, id uint) *models.Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
