package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCheckoutAPI(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Variant{},
		&models.Location{}, &models.InventoryRecord{},
		&models.Order{}, &models.OrderItem{}, &models.Setting{},
	))

	ctrl := NewCheckoutController(db, services.NewSettings(db))
	r := chi.NewRouter()
	r.Post("/api/checkout", ctrl.PlaceOrder)
	r.Get("/api/orders/{number}", ctrl.Track)
	return db, r
}

func seedCheckoutProduct(t *testing.T, db *gorm.DB, stock int) (*models.Product, uint) {
	t.Helper()

	size := "M"
	product := &models.Product{
		Title: "Kurta", Slug: "kurta", BasePrice: 100, SKU: "KUR",
		HasSizes: true, Sizes: []string{"M"}, Active: true,
		Variants: []models.Variant{{Size: &size, SKU: "KUR-M", Status: models.VariantActive}},
	}
	require.NoError(t, db.Create(product).Error)

	location := models.Location{Name: "Main"}
	require.NoError(t, db.Create(&location).Error)
	require.NoError(t, db.Create(&models.InventoryRecord{
		VariantID:  product.Variants[0].ID,
		LocationID: location.ID,
		Available:  stock,
	}).Error)
	return product, product.Variants[0].ID
}

func checkoutBody(productID, variantID uint, qty int) string {
	return fmt.Sprintf(`{
		"email": "buyer@example.com",
		"payment_method": "upi",
		"shipping_address": {"name":"A Buyer","line1":"1 Lane","city":"Pune","postal_code":"411001","country":"IN"},
		"items": [{"product_id": %d, "variant_id": %d, "quantity": %d}]
	}`, productID, variantID, qty)
}

func TestCheckoutEndpointCreatesOrder(t *testing.T) {
	db, api := newCheckoutAPI(t)
	product, variantID := seedCheckoutProduct(t, db, 5)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(checkoutBody(product.ID, variantID, 2)))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data struct {
			Number string  `json:"number"`
			Total  float64 `json:"total"`
			Status string  `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Number)
	assert.Equal(t, "pending", body.Data.Status)
	assert.Equal(t, 200.0, body.Data.Total)

	// The buyer can track the order with number plus email.
	track := httptest.NewRequest(http.MethodGet,
		"/api/orders/"+body.Data.Number+"?email=buyer@example.com", nil)
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, track)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The wrong email is a 404, not a data leak.
	track = httptest.NewRequest(http.MethodGet,
		"/api/orders/"+body.Data.Number+"?email=other@example.com", nil)
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, track)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutEndpointStockConflict(t *testing.T) {
	db, api := newCheckoutAPI(t)
	product, variantID := seedCheckoutProduct(t, db, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(checkoutBody(product.ID, variantID, 2)))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "KUR-M")
}

func TestCheckoutEndpointValidation(t *testing.T) {
	_, api := newCheckoutAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(`{"email":"nope","items":[]}`))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(`{not json`))
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
