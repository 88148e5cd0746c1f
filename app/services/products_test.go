package services

import (
	"testing"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsCreateGeneratesMatrix(t *testing.T) {
	db := newTestDB(t)
	svc := NewProducts(db)

	product, err := svc.Create(ProductInput{
		Title:     "Block Print Kurta",
		BasePrice: 1199,
		SKU:       "KUR",
		HasColors: true,
		HasSizes:  true,
		Colors:    []string{"Indigo"},
		Sizes:     []string{"M", "S"},
	})
	require.NoError(t, err)

	assert.Equal(t, "block-print-kurta", product.Slug)
	require.Len(t, product.Variants, 2)
	assert.Equal(t, "S", *product.Variants[0].Size)
	assert.Equal(t, []string{"S", "M"}, product.Sizes)
}

func TestProductsUpdateRegeneratesWithoutOrphaning(t *testing.T) {
	db := newTestDB(t)
	svc := NewProducts(db)

	product, err := svc.Create(ProductInput{
		Title: "Kurta", BasePrice: 1199, SKU: "KUR",
		HasSizes: true, Sizes: []string{"S", "M"},
	})
	require.NoError(t, err)

	// Give the M variant stock and a price override, then drop S and add L.
	var m models.Variant
	require.NoError(t, db.Where("product_id = ? AND size = ?", product.ID, "M").
		First(&m).Error)
	override := 999.0
	require.NoError(t, db.Model(&m).Update("price", &override).Error)

	location := models.Location{Name: "Main"}
	require.NoError(t, db.Create(&location).Error)
	require.NoError(t, db.Create(&models.InventoryRecord{
		VariantID: m.ID, LocationID: location.ID, Available: 9,
	}).Error)

	updated, err := svc.Update(product.ID, ProductInput{
		Title: "Kurta", BasePrice: 1199, SKU: "KUR",
		HasSizes: true, Sizes: []string{"M", "L"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)

	var keptM, freshL *models.Variant
	for i := range updated.Variants {
		switch *updated.Variants[i].Size {
		case "M":
			keptM = &updated.Variants[i]
		case "L":
			freshL = &updated.Variants[i]
		}
	}
	require.NotNil(t, keptM)
	require.NotNil(t, freshL)

	// The surviving pair kept its identity, override and stock linkage.
	assert.Equal(t, m.ID, keptM.ID)
	require.NotNil(t, keptM.Price)
	assert.Equal(t, 999.0, *keptM.Price)
	assert.Equal(t, 9, variantStock(t, db, keptM.ID))

	assert.Nil(t, freshL.Price)
	assert.Zero(t, variantStock(t, db, freshL.ID))

	// The dropped S variant is gone along with its (empty) ledger.
	var sCount int64
	db.Unscoped().Model(&models.Variant{}).
		Where("product_id = ? AND size = ?", product.ID, "S").Count(&sCount)
	assert.Zero(t, sCount)
}

func TestProductsValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProducts(db)
	var vErr *ValidationError

	_, err := svc.Create(ProductInput{BasePrice: 10, SKU: "X"})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Create(ProductInput{Title: "T", BasePrice: 10, SKU: "X", HasColors: true})
	require.ErrorAs(t, err, &vErr)

	sale := 20.0
	_, err = svc.Create(ProductInput{Title: "T", BasePrice: 10, SKU: "X", SalePrice: &sale})
	require.ErrorAs(t, err, &vErr)
}

func TestProductsDeleteRemovesVariantsAndStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewProducts(db)

	product, _ := seedProduct(t, db, "KUR", 100, 5)

	require.NoError(t, svc.Delete(product.ID))

	var products, variants, records int64
	db.Unscoped().Model(&models.Product{}).Count(&products)
	db.Unscoped().Model(&models.Variant{}).Count(&variants)
	db.Unscoped().Model(&models.InventoryRecord{}).Count(&records)
	assert.Zero(t, products)
	assert.Zero(t, variants)
	assert.Zero(t, records)
}
