package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// AdminOrdersController manages orders after creation: listing, status
// moves, cancellation with stock compensation, and hard deletion.
type AdminOrdersController struct {
	orders *services.Orders
	repo   *repositories.OrderRepository
}

func NewAdminOrdersController(db *gorm.DB) *AdminOrdersController {
	return &AdminOrdersController{
		orders: services.NewOrders(db),
		repo:   repositories.NewOrderRepository(db),
	}
}

// List handles GET /api/admin/orders with status and search filters.
func (c *AdminOrdersController) List(w http.ResponseWriter, r *http.Request) {
	orders, p, err := c.repo.List(repositories.OrderFilter{
		Status:  r.URL.Query().Get("status"),
		Search:  r.URL.Query().Get("q"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 25),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Paginated(w, orders, p)
}

// Show handles GET /api/admin/orders/{id}.
func (c *AdminOrdersController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	order, err := c.orders.Find(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

// UpdateStatus handles PATCH /api/admin/orders/{id}. Moving an order to
// cancelled routes through the cancellation path so stock compensation
// happens.
func (c *AdminOrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.UpdateStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

// Cancel handles POST /api/admin/orders/{id}/cancel.
func (c *AdminOrdersController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	order, err := c.orders.Cancel(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

// Delete handles DELETE /api/admin/orders/{id}. Hard removal, no stock
// restoration; cancel first if compensation is wanted.
func (c *AdminOrdersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.orders.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"deleted": id})
}

// Stats handles GET /api/admin/orders/stats for the dashboard.
func (c *AdminOrdersController) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := c.repo.CountByStatus()
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"by_status": counts})
}
