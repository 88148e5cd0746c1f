package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Transitions are enforced by the order service, not here.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// Payment statuses. Settlement is simulated — there is no gateway behind this.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Fulfillment statuses.
const (
	FulfillmentNone      = "unfulfilled"
	FulfillmentPartial   = "partial"
	FulfillmentFulfilled = "fulfilled"
)

// Address is stored as a JSON column on the order.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Order is the immutable record of a committed purchase. Prices and titles
// on its items are snapshots taken at creation time; everything after
// creation goes through the status state machine.
type Order struct {
	gorm.Model
	Number            string   `gorm:"size:64;not null;uniqueIndex"     json:"number"`
	Email             string   `gorm:"size:255;not null;index"          json:"email"`
	Status            string   `gorm:"size:20;not null;default:pending;index" json:"status"`
	PaymentStatus     string   `gorm:"size:20;not null;default:pending" json:"payment_status"`
	FulfillmentStatus string   `gorm:"size:20;not null;default:unfulfilled" json:"fulfillment_status"`
	Subtotal          float64  `gorm:"not null"                         json:"subtotal"`
	ShippingTotal     float64  `gorm:"not null"                         json:"shipping_total"`
	TaxTotal          float64  `gorm:"not null"                         json:"tax_total"`
	Total             float64  `gorm:"not null"                         json:"total"`
	ShippingAddress   Address  `gorm:"serializer:json"                  json:"shipping_address"`
	BillingAddress    *Address `gorm:"serializer:json"                  json:"billing_address,omitempty"`
	PaymentMethod     string   `gorm:"size:50"                          json:"payment_method"`
	PaymentProof      string   `gorm:"size:512"                         json:"payment_proof,omitempty"`
	AdminMessage      string   `gorm:"type:text"                        json:"admin_message,omitempty"`

	// IdempotencyKey, when supplied by the client, makes checkout retries
	// safe: a duplicate key returns the original order instead of
	// committing a second one.
	IdempotencyKey *string `gorm:"size:128;uniqueIndex" json:"idempotency_key,omitempty"`

	// StockRestored records that cancellation compensation has been applied,
	// so the reconciliation sweep never double-restores.
	StockRestored bool       `gorm:"not null;default:false" json:"stock_restored"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`

	Items []OrderItem `json:"items"`
}

// OrderItem is one line of an order. Title, VariantTitle, SKU, ImageURL and
// UnitPrice are snapshots — later catalog edits must never change a placed
// order.
type OrderItem struct {
	gorm.Model
	OrderID      uint    `gorm:"not null;index"     json:"order_id"`
	ProductID    uint    `gorm:"not null"           json:"product_id"`
	VariantID    *uint   `gorm:"index"              json:"variant_id,omitempty"`
	Title        string  `gorm:"size:255;not null"  json:"title"`
	VariantTitle string  `gorm:"size:255"           json:"variant_title,omitempty"`
	SKU          string  `gorm:"size:100"           json:"sku"`
	ImageURL     string  `gorm:"size:512"           json:"image_url,omitempty"`
	Quantity     int     `gorm:"not null"           json:"quantity"`
	UnitPrice    float64 `gorm:"not null"           json:"unit_price"`
	TotalPrice   float64 `gorm:"not null"           json:"total_price"`
}
