package services

import (
	"errors"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so the response never reveals which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Auth authenticates administrative users and issues JWTs. Buyers never log
// in; the storefront is account-free.
type Auth struct {
	users *repositories.UserRepository
}

func NewAuth(db *gorm.DB) *Auth {
	return &Auth{users: repositories.NewUserRepository(db)}
}

// Login verifies the credentials and returns a fresh token pair.
func (s *Auth) Login(email, password string) (*TokenPair, *models.User, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, persistence("user lookup", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The user is
// re-read so a role change or deletion takes effect immediately.
func (s *Auth) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, persistence("user lookup", err)
	}

	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
