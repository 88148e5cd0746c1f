package services

import (
	"errors"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/validate"
	"gorm.io/gorm"
)

// Roles an admin user can hold. Owners manage users and settings; staff
// handle the catalog and orders.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// UserInput is the admin user create/update payload.
type UserInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,in=owner,staff"`
}

// Users manages the administrative accounts.
type Users struct {
	repo *repositories.UserRepository
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{repo: repositories.NewUserRepository(db)}
}

// Find loads one user by id.
func (s *Users) Find(id uint) (*models.User, error) {
	user, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("unknown user %d", id)
	}
	if err != nil {
		return nil, persistence("user read", err)
	}
	return user, nil
}

// List returns one page of users.
func (s *Users) List(page, perPage int) ([]models.User, response.Pagination, error) {
	users, p, err := s.repo.All(page, perPage)
	if err != nil {
		return nil, p, persistence("user list", err)
	}
	return users, p, nil
}

// Create validates the input, hashes the password and persists the user.
func (s *Users) Create(in UserInput) (*models.User, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, &ValidationError{Message: "invalid user", Fields: errs}
	}
	if existing, err := s.repo.FindByEmail(in.Email); err == nil && existing != nil {
		return nil, validationf("email %q is already taken", in.Email)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, persistence("password hash", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, persistence("user create", err)
	}
	return user, nil
}
