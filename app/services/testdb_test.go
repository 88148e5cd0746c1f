package services

import (
	"testing"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Variant{},
		&models.Location{},
		&models.InventoryRecord{},
		&models.Order{},
		&models.OrderItem{},
		&models.Setting{},
	))
	return db
}

// seedProduct creates a product with one active variant holding the given
// stock at a single location.
func seedProduct(t *testing.T, db *gorm.DB, sku string, price float64, stock int) (*models.Product, *models.Variant) {
	t.Helper()

	size := "M"
	product := &models.Product{
		Title:     "Test " + sku,
		Slug:      "test-" + sku,
		BasePrice: price,
		SKU:       sku,
		HasSizes:  true,
		Sizes:     []string{"M"},
		Active:    true,
		Variants: []models.Variant{{
			Size:   &size,
			SKU:    sku + "-M",
			Status: models.VariantActive,
		}},
	}
	require.NoError(t, db.Create(product).Error)

	variant := &product.Variants[0]
	location := models.Location{Name: "loc-" + sku}
	require.NoError(t, db.Create(&location).Error)
	require.NoError(t, db.Create(&models.InventoryRecord{
		VariantID:  variant.ID,
		LocationID: location.ID,
		Available:  stock,
	}).Error)

	return product, variant
}

func gormModel(id uint) gorm.Model { return gorm.Model{ID: id} }

func variantStock(t *testing.T, db *gorm.DB, variantID uint) int {
	t.Helper()

	var total int64
	require.NoError(t, db.Model(&models.InventoryRecord{}).
		Where("variant_id = ?", variantID).
		Select("COALESCE(SUM(available), 0)").
		Scan(&total).Error)
	return int(total)
}
