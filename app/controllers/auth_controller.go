package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/validate"
	"gorm.io/gorm"
)

// AuthController issues JWTs for the admin panel.
type AuthController struct {
	auth  *services.Auth
	users *services.Users
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		auth:  services.NewAuth(db),
		users: services.NewUsers(db),
	}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.ValidationError(w, errs)
		return
	}
	if errs := validate.Struct(&body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	tokens, user, err := c.auth.Login(body.Email, body.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"tokens": tokens,
		"user":   user,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /api/auth/refresh.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.ValidationError(w, errs)
		return
	}
	if errs := validate.Struct(&body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	tokens, err := c.auth.Refresh(body.RefreshToken)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, tokens)
}

// Me handles GET /api/admin/me and returns the authenticated user.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.users.Find(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, user)
}
