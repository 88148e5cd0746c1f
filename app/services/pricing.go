package services

import (
	"math"

	"github.com/shashiranjanraj/vastra/app/models"
)

// ResolveUnitPrice computes the effective unit price for a line. A variant
// override, when present, replaces the corresponding product price. The sale
// price wins only when it is set and strictly below the effective base —
// sale prices are advisory and never silently assumed lower.
//
// Pure; negative inputs are a caller contract violation and are not handled.
func ResolveUnitPrice(basePrice float64, baseSale, variantPrice, variantSale *float64) float64 {
	base := basePrice
	if variantPrice != nil {
		base = *variantPrice
	}

	sale := baseSale
	if variantSale != nil {
		sale = variantSale
	}

	if sale != nil && *sale < base {
		return *sale
	}
	return base
}

// UnitPriceFor resolves the price of a product line. variant may be nil for
// products with no configured axes.
func UnitPriceFor(p *models.Product, variant *models.Variant) float64 {
	if variant == nil {
		return ResolveUnitPrice(p.BasePrice, p.SalePrice, nil, nil)
	}
	return ResolveUnitPrice(p.BasePrice, p.SalePrice, variant.Price, variant.SalePrice)
}

// roundMoney normalises a computed amount to two decimal places so float
// accumulation never leaks sub-cent noise into stored totals.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
