// Package repositories holds the query layer: thin, composable data access
// over GORM that services and controllers build on. Repositories never make
// business decisions; they fetch, filter and persist.
package repositories

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// UserRepository handles database operations for administrative users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// All returns users one page at a time, newest first.
func (r *UserRepository) All(page, perPage int) ([]models.User, response.Pagination, error) {
	var (
		users []models.User
		total int64
	)
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, response.Pagination{}, err
	}

	p := response.NewPagination(page, perPage, total)
	err := r.db.Order("id DESC").
		Offset((p.Page - 1) * p.PerPage).Limit(p.PerPage).
		Find(&users).Error
	return users, p, err
}
