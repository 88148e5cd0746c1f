package services

import (
	"testing"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestSortSizes(t *testing.T) {
	assert.Equal(t,
		[]string{"XS", "S", "M", "L", "XL", "XXL"},
		SortSizes([]string{"XXL", "M", "XS", "XL", "S", "L"}))

	// Unknown sizes keep their relative order after the standard ones.
	assert.Equal(t,
		[]string{"S", "L", "Free Size", "38"},
		SortSizes([]string{"Free Size", "L", "38", "S"}))

	assert.Empty(t, SortSizes(nil))
}

func TestGenerateMatrixFullCross(t *testing.T) {
	p := &models.Product{
		SKU:       "KUR",
		HasColors: true,
		HasSizes:  true,
		Colors:    []string{"Indigo", "Rose"},
		Sizes:     []string{"M", "S"},
	}

	out := GenerateMatrix(p, nil)
	require.Len(t, out, 4)

	// Sizes come out in standard order inside each color.
	assert.Equal(t, "Indigo", *out[0].Color)
	assert.Equal(t, "S", *out[0].Size)
	assert.Equal(t, "M", *out[1].Size)
	assert.Equal(t, "Rose", *out[2].Color)

	for _, v := range out {
		assert.Zero(t, v.ID)
		assert.Equal(t, models.VariantActive, v.Status)
		assert.Nil(t, v.Price)
	}
	assert.Equal(t, "KUR-INDIGO-S", out[0].SKU)
}

func TestGenerateMatrixMergeKeepsExisting(t *testing.T) {
	p := &models.Product{
		SKU:       "KUR",
		HasColors: true,
		HasSizes:  true,
		Colors:    []string{"Indigo"},
		Sizes:     []string{"S", "M"},
	}

	override := 999.0
	existing := []models.Variant{{
		Model:     gormModel(7),
		ProductID: p.ID,
		Color:     sp("Indigo"),
		Size:      sp("M"),
		Price:     &override,
		SKU:       "CUSTOM-SKU",
		Status:    models.VariantDisabled,
	}}

	out := GenerateMatrix(p, existing)
	require.Len(t, out, 2)

	var kept, draft *models.Variant
	for i := range out {
		if out[i].ID == 7 {
			kept = &out[i]
		} else {
			draft = &out[i]
		}
	}
	require.NotNil(t, kept)
	require.NotNil(t, draft)

	// The matched pair survives verbatim: id, SKU, price override, status.
	assert.Equal(t, "CUSTOM-SKU", kept.SKU)
	assert.Equal(t, &override, kept.Price)
	assert.Equal(t, models.VariantDisabled, kept.Status)

	assert.Equal(t, "S", *draft.Size)
	assert.Zero(t, draft.ID)
	assert.Nil(t, draft.Price)
}

func TestGenerateMatrixAxisMatchIsCaseInsensitive(t *testing.T) {
	p := &models.Product{
		SKU:       "DUP",
		HasColors: true,
		Colors:    []string{"IVORY"},
	}
	existing := []models.Variant{{
		Model:  gormModel(3),
		Color:  sp("Ivory"),
		SKU:    "DUP-IVORY",
		Status: models.VariantActive,
	}}

	out := GenerateMatrix(p, existing)
	require.Len(t, out, 1)
	assert.Equal(t, uint(3), out[0].ID)
}

func TestGenerateMatrixDegenerateAxes(t *testing.T) {
	// One axis: one variant per value.
	oneAxis := &models.Product{SKU: "DUP", HasColors: true, Colors: []string{"Ivory", "Sage"}}
	out := GenerateMatrix(oneAxis, nil)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].Size)

	// No axes: a single default variant.
	noAxes := &models.Product{SKU: "BELT"}
	out = GenerateMatrix(noAxes, nil)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Color)
	assert.Nil(t, out[0].Size)
	assert.Equal(t, "BELT", out[0].SKU)
	assert.Equal(t, "Default", out[0].Title())
}
