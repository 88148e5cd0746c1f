// Package routes wires controllers onto the router. Route names follow
// "area.action" and feed route:list and URL generation.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/rbac"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/router"
	"github.com/shashiranjanraj/vastra/pkg/ws"
	"gorm.io/gorm"
)

// RegisterAPI mounts every HTTP route. The storefront surface is public;
// everything under /api/admin requires a valid JWT, with user management
// restricted to owners.
func RegisterAPI(r *router.Router, db *gorm.DB, settings *services.Settings, hub *ws.Hub, gql http.HandlerFunc) {
	auth := controllers.NewAuthController(db)
	catalog := controllers.NewCatalogController(db)
	checkout := controllers.NewCheckoutController(db, settings)
	adminProducts := controllers.NewAdminProductsController(db)
	adminOrders := controllers.NewAdminOrdersController(db)
	adminSettings := controllers.NewAdminSettingsController(settings)
	adminUsers := controllers.NewAdminUsersController(db)

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())
	if gql != nil {
		r.Post("/graphql", "graphql", gql)
	}

	api := r.Group("/api")

	// Storefront: read-only catalog plus the single checkout write.
	api.Get("/products", "catalog.index", catalog.List)
	api.Get("/products/{slug}", "catalog.show", catalog.Show)
	api.Post("/checkout", "checkout.place", checkout.PlaceOrder)
	api.Get("/orders/{number}", "checkout.track", checkout.Track)

	api.Post("/auth/login", "auth.login", auth.Login, rbac.Guest)
	api.Post("/auth/refresh", "auth.refresh", auth.Refresh)

	admin := api.Group("/admin", middleware.Auth)
	admin.Get("/me", "admin.me", auth.Me)

	admin.Get("/products", "admin.products.index", adminProducts.List)
	admin.Post("/products", "admin.products.store", adminProducts.Create)
	admin.Get("/products/{id}", "admin.products.show", adminProducts.Show)
	admin.Put("/products/{id}", "admin.products.update", adminProducts.Update)
	admin.Delete("/products/{id}", "admin.products.destroy", adminProducts.Delete)
	admin.Post("/products/{id}/images", "admin.products.images", adminProducts.UploadImage)

	admin.Get("/variants/{id}/stock", "admin.variants.stock", adminProducts.VariantStock)
	admin.Put("/variants/{id}/stock", "admin.variants.stock.update", adminProducts.SetStock)
	admin.Get("/locations", "admin.locations.index", adminProducts.Locations)
	admin.Post("/locations", "admin.locations.store", adminProducts.CreateLocation)

	admin.Get("/orders", "admin.orders.index", adminOrders.List)
	admin.Get("/orders/stats", "admin.orders.stats", adminOrders.Stats)
	admin.Get("/orders/{id}", "admin.orders.show", adminOrders.Show)
	admin.Patch("/orders/{id}", "admin.orders.update", adminOrders.UpdateStatus)
	admin.Post("/orders/{id}/cancel", "admin.orders.cancel", adminOrders.Cancel)
	admin.Delete("/orders/{id}", "admin.orders.destroy", adminOrders.Delete)

	admin.Get("/settings", "admin.settings.show", adminSettings.Show)
	admin.Put("/settings", "admin.settings.update", adminSettings.Update)

	owner := admin.Group("", rbac.HasRole(services.RoleOwner))
	owner.Get("/users", "admin.users.index", adminUsers.List)
	owner.Post("/users", "admin.users.store", adminUsers.Create)

	// Live order feed for the admin dashboard.
	r.Get("/ws/admin/orders", "admin.orders.feed", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, hub)
	}, middleware.Auth)
}
