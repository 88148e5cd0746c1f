package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/resources"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/resource"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// CheckoutController takes a cart and turns it into an order. This is the
// storefront's only write endpoint.
type CheckoutController struct {
	checkout *services.Checkout
	orders   *repositories.OrderRepository
}

func NewCheckoutController(db *gorm.DB, settings *services.Settings) *CheckoutController {
	return &CheckoutController{
		checkout: services.NewCheckout(db, settings),
		orders:   repositories.NewOrderRepository(db),
	}
}

// PlaceOrder handles POST /api/checkout. A stock race returns 409 with the
// losing variant named so the buyer can adjust their cart.
func (c *CheckoutController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.checkout.PlaceOrder(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"number": order.Number,
		"total":  order.Total,
		"status": order.Status,
	})
}

// Track handles GET /api/orders/{number}?email=... for buyer order lookup.
// The email must match the one the order was placed under.
func (c *CheckoutController) Track(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	email := r.URL.Query().Get("email")
	if number == "" || email == "" {
		response.Error(w, http.StatusUnprocessableEntity, "order number and email are required")
		return
	}

	order, err := c.orders.FindByNumber(number, email)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resource.New(&resources.OrderResource{}, *order).Respond(w)
}
