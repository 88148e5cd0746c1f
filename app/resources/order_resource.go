package resources

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/resource"
)

// OrderResource renders an order for the buyer-facing tracking endpoint.
// Internal bookkeeping fields stay out of the storefront payload.
type OrderResource struct {
	resource.Base
}

func (t *OrderResource) ToArray(v interface{}) resource.Map {
	o := v.(models.Order)

	items := make([]resource.Map, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, resource.Map{
			"title":         item.Title,
			"variant_title": item.VariantTitle,
			"sku":           item.SKU,
			"image_url":     item.ImageURL,
			"quantity":      item.Quantity,
			"unit_price":    item.UnitPrice,
			"total_price":   item.TotalPrice,
		})
	}

	return resource.Map{
		"number":             o.Number,
		"status":             o.Status,
		"payment_status":     o.PaymentStatus,
		"fulfillment_status": o.FulfillmentStatus,
		"subtotal":           o.Subtotal,
		"shipping_total":     o.ShippingTotal,
		"tax_total":          o.TaxTotal,
		"total":              o.Total,
		"placed_at":          o.CreatedAt,
		"items":              items,
	}
}
