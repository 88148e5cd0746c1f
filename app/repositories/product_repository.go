package repositories

import (
	"strings"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Search     string // matched against title and sku
	ActiveOnly bool   // storefront listings hide inactive products
	Page       int
	PerPage    int
}

// ProductRepository handles catalog persistence: products, their variants
// and the inventory ledger rows hanging off the variants.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns one page of products with variants preloaded, newest first.
func (r *ProductRepository) List(f ProductFilter) ([]models.Product, response.Pagination, error) {
	q := r.db.Model(&models.Product{})
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, response.Pagination{}, err
	}

	p := response.NewPagination(f.Page, f.PerPage, total)
	var products []models.Product
	err := q.Preload("Variants").
		Order("id DESC").
		Offset((p.Page - 1) * p.PerPage).Limit(p.PerPage).
		Find(&products).Error
	return products, p, err
}

// FindByID loads one product with its variants.
func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads one product by its storefront slug.
func (r *ProductRepository) FindBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Variants").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create persists a new product together with any variants attached to it.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update persists header changes only; variants go through SyncVariants.
func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Omit("Variants").Save(product).Error
}

// SyncVariants replaces the product's variant set with the given one in a
// single transaction. Variants carrying an id are kept as-is; zero-id drafts
// are inserted; existing variants absent from the set are hard-removed along
// with their inventory rows. Order items keep their snapshots either way.
func (r *ProductRepository) SyncVariants(productID uint, variants []models.Variant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		keep := make([]uint, 0, len(variants))
		for _, v := range variants {
			if v.ID != 0 {
				keep = append(keep, v.ID)
			}
		}

		staleQ := func(db *gorm.DB) *gorm.DB {
			q := db.Unscoped().Where("product_id = ?", productID)
			if len(keep) > 0 {
				q = q.Where("id NOT IN ?", keep)
			}
			return q
		}

		var removed []uint
		if err := staleQ(tx).Model(&models.Variant{}).Pluck("id", &removed).Error; err != nil {
			return err
		}
		if len(removed) > 0 {
			if err := tx.Unscoped().Where("variant_id IN ?", removed).
				Delete(&models.InventoryRecord{}).Error; err != nil {
				return err
			}
			if err := staleQ(tx).Delete(&models.Variant{}).Error; err != nil {
				return err
			}
		}

		for i := range variants {
			if variants[i].ID != 0 {
				continue
			}
			variants[i].ProductID = productID
			if err := tx.Create(&variants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete hard-removes a product, its variants and their inventory rows.
// Placed orders are untouched; their items carry snapshots.
func (r *ProductRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var variantIDs []uint
		if err := tx.Model(&models.Variant{}).Where("product_id = ?", id).
			Pluck("id", &variantIDs).Error; err != nil {
			return err
		}
		if len(variantIDs) > 0 {
			if err := tx.Unscoped().Where("variant_id IN ?", variantIDs).
				Delete(&models.InventoryRecord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("product_id = ?", id).
			Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Product{}, id).Error
	})
}
