package repositories

import (
	"strings"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status  string // exact status match when set
	Search  string // matched against order number and buyer email
	Page    int
	PerPage int
}

// OrderRepository handles order reads for listing and lookup. All writes go
// through the checkout and order services; the repository never mutates.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns one page of orders with items preloaded, newest first.
func (r *OrderRepository) List(f OrderFilter) ([]models.Order, response.Pagination, error) {
	q := r.db.Model(&models.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(number) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, response.Pagination{}, err
	}

	p := response.NewPagination(f.Page, f.PerPage, total)
	var orders []models.Order
	err := q.Preload("Items").
		Order("id DESC").
		Offset((p.Page - 1) * p.PerPage).Limit(p.PerPage).
		Find(&orders).Error
	return orders, p, err
}

// FindByID loads one order with its items.
func (r *OrderRepository) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber loads one order by its public order number. Buyers track
// their order with the number plus the email it was placed under.
func (r *OrderRepository) FindByNumber(number, email string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").
		Where("number = ? AND email = ?", number, email).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CountByStatus returns how many orders sit in each status, for the admin
// dashboard.
func (r *OrderRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
