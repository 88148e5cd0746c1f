package services

import (
	"sort"
	"strings"

	"github.com/shashiranjanraj/vastra/app/models"
)

// sizeRank fixes the standard apparel size ordering used when expanding the
// variant matrix. Sizes outside this table sort after the known ones, in
// input order.
var sizeRank = map[string]int{
	"XS": 0, "S": 1, "M": 2, "L": 3, "XL": 4, "XXL": 5,
}

// SortSizes returns sizes ordered XS < S < M < L < XL < XXL, preserving the
// relative input order of any unrecognised size after the standard ones.
func SortSizes(sizes []string) []string {
	out := append([]string(nil), sizes...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := sizeRank[strings.ToUpper(out[i])]
		rj, jok := sizeRank[strings.ToUpper(out[j])]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}

// GenerateMatrix expands the product's configured color/size axes into the
// full cross-product of sellable variants, merged against the existing
// variant set.
//
// The merge never overwrites: a generated (color, size) pair that matches an
// existing variant keeps that record verbatim — id, stock linkage, price
// overrides and SKU untouched — and the fresh draft is discarded. Only
// unmatched pairs produce new drafts (zero id, no stock rows, nil price
// overrides so the price follows the product). Re-configuring the axes must
// never orphan or reset variants that still apply.
//
// Degenerate axes: one enabled axis yields one variant per value; neither
// enabled yields a single default variant.
func GenerateMatrix(p *models.Product, existing []models.Variant) []models.Variant {
	colors := []*string{nil}
	if p.HasColors {
		colors = colors[:0]
		for _, c := range p.Colors {
			c := c
			colors = append(colors, &c)
		}
	}

	sizes := []*string{nil}
	if p.HasSizes {
		sizes = sizes[:0]
		for _, s := range SortSizes(p.Sizes) {
			s := s
			sizes = append(sizes, &s)
		}
	}

	byAxis := make(map[string]models.Variant, len(existing))
	for _, v := range existing {
		byAxis[axisKey(v.Color, v.Size)] = v
	}

	out := make([]models.Variant, 0, len(colors)*len(sizes))
	for _, color := range colors {
		for _, size := range sizes {
			if kept, ok := byAxis[axisKey(color, size)]; ok {
				out = append(out, kept)
				continue
			}
			out = append(out, models.Variant{
				ProductID: p.ID,
				Color:     color,
				Size:      size,
				SKU:       draftSKU(p.SKU, color, size),
				Status:    models.VariantActive,
			})
		}
	}
	return out
}

func axisKey(color, size *string) string {
	k := ""
	if color != nil {
		k = strings.ToLower(*color)
	}
	k += "\x00"
	if size != nil {
		k += strings.ToLower(*size)
	}
	return k
}

func draftSKU(base string, color, size *string) string {
	parts := []string{base}
	if color != nil {
		parts = append(parts, skuSlug(*color))
	}
	if size != nil {
		parts = append(parts, skuSlug(*size))
	}
	return strings.Join(parts, "-")
}

func skuSlug(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}
