package models

import "gorm.io/gorm"

// Image is one catalog image: the final URL plus the blur placeholder string
// produced by the media pipeline. The application stores these verbatim and
// never processes image data itself.
type Image struct {
	URL  string `json:"url"`
	Blur string `json:"blur,omitempty"`
}

// Product is a sellable catalog item. Colors and Sizes are the configured
// variant axes; the concrete SKUs live in Variants.
type Product struct {
	gorm.Model
	Title       string   `gorm:"size:255;not null;index"      json:"title"`
	Slug        string   `gorm:"size:255;uniqueIndex"         json:"slug"`
	Description string   `gorm:"type:text"                    json:"description"`
	BasePrice   float64  `gorm:"not null;default:0"           json:"base_price"`
	SalePrice   *float64 `json:"sale_price,omitempty"`
	SKU         string   `gorm:"size:100;uniqueIndex"         json:"sku"`
	HasColors   bool     `gorm:"not null;default:false"       json:"has_colors"`
	HasSizes    bool     `gorm:"not null;default:false"       json:"has_sizes"`
	Colors      []string `gorm:"serializer:json"              json:"colors"`
	Sizes       []string `gorm:"serializer:json"              json:"sizes"`
	Images      []Image  `gorm:"serializer:json"              json:"images"`
	Active      bool     `gorm:"not null;default:true;index"  json:"active"`

	Variants []Variant `json:"variants,omitempty"`
}

// Variant statuses. A disabled variant keeps its stock rows but is never
// orderable.
const (
	VariantActive   = "active"
	VariantDisabled = "disabled"
)

// Variant is a concrete purchasable SKU of a product, identified by its
// (color, size) axis pair, which is unique within the product. Nil price
// fields fall back to the product's prices.
type Variant struct {
	gorm.Model
	ProductID uint     `gorm:"not null;index;uniqueIndex:ux_variant_axis" json:"product_id"`
	Color     *string  `gorm:"size:100;uniqueIndex:ux_variant_axis"       json:"color,omitempty"`
	Size      *string  `gorm:"size:50;uniqueIndex:ux_variant_axis"        json:"size,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	SKU       string   `gorm:"size:100;index"                             json:"sku"`
	Status    string   `gorm:"size:20;not null;default:active"            json:"status"`
}

// Orderable reports whether the variant may appear on a new order.
// Stock is a separate question answered by the inventory ledger.
func (v *Variant) Orderable() bool { return v.Status == VariantActive }

// Title renders the axis pair for order-item snapshots, e.g. "Indigo / M".
func (v *Variant) Title() string {
	switch {
	case v.Color != nil && v.Size != nil:
		return *v.Color + " / " + *v.Size
	case v.Color != nil:
		return *v.Color
	case v.Size != nil:
		return *v.Size
	default:
		return "Default"
	}
}

// Location is one physical or logical stock-keeping place.
type Location struct {
	gorm.Model
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

// InventoryRecord is the stock count of one variant at one location.
// Available is never negative; the total stock of a variant is the sum of
// its records across all locations. Only the checkout transaction and the
// cancellation compensation write Available outside of admin edits.
type InventoryRecord struct {
	gorm.Model
	VariantID  uint `gorm:"not null;uniqueIndex:ux_stock_slot;index" json:"variant_id"`
	LocationID uint `gorm:"not null;uniqueIndex:ux_stock_slot"       json:"location_id"`
	Available  int  `gorm:"not null;default:0;check:available >= 0"  json:"available"`
}
