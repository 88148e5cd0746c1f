package seeders

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("owner", SeedOwner)
	Register("settings", SeedSettings)
	Register("catalog", SeedCatalog)
}

// SeedOwner creates the initial owner account. The password must be changed
// after first login.
func SeedOwner(db *gorm.DB) error {
	hash, err := auth.HashPassword("change-me-soon")
	if err != nil {
		return err
	}

	owner := models.User{Email: "owner@vastra.shop"}
	return db.Where(models.User{Email: owner.Email}).
		Attrs(models.User{
			Name:     "Store Owner",
			Password: hash,
			Role:     services.RoleOwner,
		}).
		FirstOrCreate(&owner).Error
}

// SeedSettings writes the default site settings without clobbering edits.
func SeedSettings(db *gorm.DB) error {
	defaults := map[string]string{
		"store_name":              "Vastra",
		"currency":                "INR",
		"free_shipping_threshold": "999",
		"shipping_flat_fee":       "49",
	}
	for key, value := range defaults {
		setting := models.Setting{Key: key}
		err := db.Where(models.Setting{Key: key}).
			Attrs(models.Setting{Value: value}).
			FirstOrCreate(&setting).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedCatalog inserts a small demo catalog: one location and two products
// with generated variant matrices and opening stock.
func SeedCatalog(db *gorm.DB) error {
	location := models.Location{Name: "Main Warehouse"}
	if err := db.Where(models.Location{Name: location.Name}).
		FirstOrCreate(&location).Error; err != nil {
		return err
	}

	sale := 899.0
	demo := []models.Product{
		{
			Title:       "Indigo Block Print Kurta",
			Slug:        "indigo-block-print-kurta",
			Description: "Hand block printed cotton kurta in natural indigo.",
			BasePrice:   1199,
			SalePrice:   &sale,
			SKU:         "KUR-IND",
			HasColors:   true,
			HasSizes:    true,
			Colors:      []string{"Indigo", "Madder Red"},
			Sizes:       []string{"S", "M", "L", "XL"},
			Active:      true,
		},
		{
			Title:       "Mulmul Cotton Dupatta",
			Slug:        "mulmul-cotton-dupatta",
			Description: "Lightweight mulmul dupatta with hand-rolled edges.",
			BasePrice:   649,
			SKU:         "DUP-MUL",
			HasColors:   true,
			Colors:      []string{"Ivory", "Rose", "Sage"},
			Active:      true,
		},
	}

	for i := range demo {
		product := demo[i]
		err := db.Where(models.Product{Slug: product.Slug}).
			Attrs(product).
			FirstOrCreate(&product).Error
		if err != nil {
			return err
		}

		var existing []models.Variant
		if err := db.Where("product_id = ?", product.ID).Find(&existing).Error; err != nil {
			return err
		}
		for _, v := range services.GenerateMatrix(&product, existing) {
			if v.ID != 0 {
				continue
			}
			v.ProductID = product.ID
			if err := db.Create(&v).Error; err != nil {
				return err
			}
			record := models.InventoryRecord{VariantID: v.ID, LocationID: location.ID}
			err := db.Where(models.InventoryRecord{VariantID: v.ID, LocationID: location.ID}).
				Attrs(models.InventoryRecord{Available: 25}).
				FirstOrCreate(&record).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}
