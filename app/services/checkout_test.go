package services

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func checkoutFor(db *gorm.DB) *Checkout {
	return NewCheckout(db, NewSettings(db))
}

func validInput(items ...CheckoutItem) CheckoutInput {
	return CheckoutInput{
		Email:         "buyer@example.com",
		Items:         items,
		PaymentMethod: "upi",
		ShippingAddress: models.Address{
			Name: "A Buyer", Line1: "1 Lane", City: "Pune",
			PostalCode: "411001", Country: "IN",
		},
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 100, 10)

	order, err := checkoutFor(db).PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 3},
	))
	require.NoError(t, err)

	assert.NotEmpty(t, order.Number)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 300.0, order.Subtotal)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 100.0, order.Items[0].UnitPrice)
	assert.Equal(t, "KUR-M", order.Items[0].SKU)

	assert.Equal(t, 7, variantStock(t, db, variant.ID))
}

func TestPlaceOrderIgnoresClientPrices(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 100, 10)

	sale := 80.0
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("sale_price", &sale).Error)

	order, err := checkoutFor(db).PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// The price is resolved server side from the catalog, nothing else.
	assert.Equal(t, 80.0, order.Items[0].UnitPrice)
}

func TestPlaceOrderShipping(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 50, 20)

	// Default config threshold is 100 with a 9.99 flat fee.
	below, err := checkoutFor(db).PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, 9.99, below.ShippingTotal)
	assert.Equal(t, 59.99, below.Total)

	free, err := checkoutFor(db).PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2},
	))
	require.NoError(t, err)
	assert.Zero(t, free.ShippingTotal)
	assert.Equal(t, 100.0, free.Total)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 100, 2)

	_, err := checkoutFor(db).PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 3},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, variant.ID, stockErr.VariantID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	// Nothing was committed.
	assert.Equal(t, 2, variantStock(t, db, variant.ID))
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceOrderAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	p1, v1 := seedProduct(t, db, "KUR", 100, 10)
	p2, v2 := seedProduct(t, db, "DUP", 50, 1)

	// The second line fails, so the first line's decrement must roll back.
	_, err := checkoutFor(db).PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: p1.ID, VariantID: &v1.ID, Quantity: 2},
		CheckoutItem{ProductID: p2.ID, VariantID: &v2.ID, Quantity: 5},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, v2.ID, stockErr.VariantID)

	assert.Equal(t, 10, variantStock(t, db, v1.ID))
	assert.Equal(t, 1, variantStock(t, db, v2.ID))
}

func TestPlaceOrderSequentialDepletion(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 100, 1)
	checkout := checkoutFor(db)

	first, err := checkout.PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	))
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = checkout.PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	))
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Zero(t, stockErr.Available)
}

func TestPlaceOrderIdempotency(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 100, 10)
	checkout := checkoutFor(db)

	in := validInput(CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2})
	in.IdempotencyKey = "retry-me-once"

	first, err := checkout.PlaceOrder(context.Background(), in)
	require.NoError(t, err)

	second, err := checkout.PlaceOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)

	// Stock was only reserved once.
	assert.Equal(t, 8, variantStock(t, db, variant.ID))
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 100, 10)
	checkout := checkoutFor(db)
	ctx := context.Background()

	var vErr *ValidationError

	_, err := checkout.PlaceOrder(ctx, validInput())
	require.ErrorAs(t, err, &vErr)

	bad := validInput(CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1})
	bad.Email = "not-an-email"
	_, err = checkout.PlaceOrder(ctx, bad)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "email")

	_, err = checkout.PlaceOrder(ctx, validInput(
		CheckoutItem{ProductID: 9999, Quantity: 1},
	))
	require.ErrorAs(t, err, &vErr)

	// A product with variants requires a variant selection.
	_, err = checkout.PlaceOrder(ctx, validInput(
		CheckoutItem{ProductID: product.ID, Quantity: 1},
	))
	require.ErrorAs(t, err, &vErr)
}

func TestPlaceOrderRejectsInactiveAndDisabled(t *testing.T) {
	db := newTestDB(t)
	product, variant := seedProduct(t, db, "KUR", 100, 10)
	checkout := checkoutFor(db)
	ctx := context.Background()
	var vErr *ValidationError

	require.NoError(t, db.Model(&models.Variant{}).Where("id = ?", variant.ID).
		Update("status", models.VariantDisabled).Error)
	_, err := checkout.PlaceOrder(ctx, validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	))
	require.ErrorAs(t, err, &vErr)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("active", false).Error)
	_, err = checkout.PlaceOrder(ctx, validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	))
	require.ErrorAs(t, err, &vErr)
}
