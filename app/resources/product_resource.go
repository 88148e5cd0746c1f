// Package resources holds the API transformers that shape storefront and
// admin JSON. Storefront responses strip admin-only fields and attach
// advisory stock counts; admin responses expose models directly.
package resources

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/resource"
)

// ProductResource renders a product for the storefront. Stock figures are
// advisory; checkout re-checks under lock.
type ProductResource struct {
	resource.Base
	Stock map[uint]int // variant id -> summed available, may be nil
}

func (t *ProductResource) ToArray(v interface{}) resource.Map {
	p := v.(models.Product)

	variants := make([]resource.Map, 0, len(p.Variants))
	for _, variant := range p.Variants {
		if !variant.Orderable() {
			continue
		}
		entry := resource.Map{
			"id":    variant.ID,
			"sku":   variant.SKU,
			"title": variant.Title(),
			"price": services.UnitPriceFor(&p, &variant),
		}
		if variant.Color != nil {
			entry["color"] = *variant.Color
		}
		if variant.Size != nil {
			entry["size"] = *variant.Size
		}
		if t.Stock != nil {
			entry["available"] = t.Stock[variant.ID]
		}
		variants = append(variants, entry)
	}

	out := resource.Map{
		"id":          p.ID,
		"title":       p.Title,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       services.UnitPriceFor(&p, nil),
		"base_price":  p.BasePrice,
		"images":      p.Images,
		"has_colors":  p.HasColors,
		"has_sizes":   p.HasSizes,
		"colors":      p.Colors,
		"sizes":       services.SortSizes(p.Sizes),
		"variants":    variants,
	}
	if p.SalePrice != nil && *p.SalePrice < p.BasePrice {
		out["sale_price"] = *p.SalePrice
	}
	return out
}
