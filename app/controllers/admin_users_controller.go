package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// AdminUsersController manages admin accounts. Routes are owner-only.
type AdminUsersController struct {
	users *services.Users
}

func NewAdminUsersController(db *gorm.DB) *AdminUsersController {
	return &AdminUsersController{users: services.NewUsers(db)}
}

// List handles GET /api/admin/users.
func (c *AdminUsersController) List(w http.ResponseWriter, r *http.Request) {
	users, p, err := c.users.List(queryInt(r, "page", 1), queryInt(r, "per_page", 25))
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Paginated(w, users, p)
}

// Create handles POST /api/admin/users.
func (c *AdminUsersController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.Create(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, user)
}
