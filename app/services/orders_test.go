package services

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// placeTestOrder commits an order for qty units through the real checkout
// path so stock decrements are in place.
func placeTestOrder(t *testing.T, db *gorm.DB, qty int) (*models.Order, *models.Variant) {
	t.Helper()

	product, variant := seedProduct(t, db, "KUR", 100, 10)
	order, err := checkoutFor(db).PlaceOrder(context.Background(), validInput(
		CheckoutItem{ProductID: product.ID, VariantID: &variant.ID, Quantity: qty},
	))
	require.NoError(t, err)
	return order, variant
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.OrderPending, models.OrderProcessing))
	assert.True(t, CanTransition(models.OrderProcessing, models.OrderShipped))
	assert.True(t, CanTransition(models.OrderShipped, models.OrderDelivered))
	assert.True(t, CanTransition(models.OrderPending, models.OrderCancelled))
	assert.True(t, CanTransition(models.OrderProcessing, models.OrderCancelled))
	assert.True(t, CanTransition(models.OrderDelivered, models.OrderRefunded))
	assert.True(t, CanTransition(models.OrderCancelled, models.OrderRefunded))

	assert.False(t, CanTransition(models.OrderPending, models.OrderShipped))
	assert.False(t, CanTransition(models.OrderShipped, models.OrderCancelled))
	assert.False(t, CanTransition(models.OrderDelivered, models.OrderCancelled))
	assert.False(t, CanTransition(models.OrderRefunded, models.OrderPending))
	assert.False(t, CanTransition(models.OrderCancelled, models.OrderCancelled))
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	order, variant := placeTestOrder(t, db, 4)
	orders := NewOrders(db)
	ctx := context.Background()

	require.Equal(t, 6, variantStock(t, db, variant.ID))

	cancelled, err := orders.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.True(t, cancelled.StockRestored)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 10, variantStock(t, db, variant.ID))

	// A second cancel is an invalid transition, not a double restore.
	_, err = orders.Cancel(ctx, order.ID)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, 10, variantStock(t, db, variant.ID))

	// Redundant restoration is a no-op behind the flag.
	reloaded, err := orders.Find(order.ID)
	require.NoError(t, err)
	require.NoError(t, orders.RestoreStock(ctx, reloaded))
	assert.Equal(t, 10, variantStock(t, db, variant.ID))
}

func TestCancelRecreatesMissingLedgerRow(t *testing.T) {
	db := newTestDB(t)
	order, variant := placeTestOrder(t, db, 2)
	orders := NewOrders(db)

	// Ledger rows for the variant vanished (retired location cleanup).
	require.NoError(t, db.Unscoped().
		Where("variant_id = ?", variant.ID).
		Delete(&models.InventoryRecord{}).Error)

	_, err := orders.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, variantStock(t, db, variant.ID))
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	order, _ := placeTestOrder(t, db, 1)
	orders := NewOrders(db)
	ctx := context.Background()

	processing := models.OrderProcessing
	updated, err := orders.UpdateStatus(ctx, order.ID, UpdateStatusInput{Status: &processing})
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, updated.Status)

	// Illegal jump is rejected and nothing changes.
	delivered := models.OrderDelivered
	_, err = orders.UpdateStatus(ctx, order.ID, UpdateStatusInput{Status: &delivered})
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, models.OrderProcessing, transErr.From)

	reloaded, err := orders.Find(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, reloaded.Status)
}

func TestUpdateStatusCancelRoutesThroughCompensation(t *testing.T) {
	db := newTestDB(t)
	order, variant := placeTestOrder(t, db, 3)
	orders := NewOrders(db)

	cancelled := models.OrderCancelled
	updated, err := orders.UpdateStatus(context.Background(), order.ID,
		UpdateStatusInput{Status: &cancelled})
	require.NoError(t, err)

	assert.Equal(t, models.OrderCancelled, updated.Status)
	assert.True(t, updated.StockRestored)
	assert.Equal(t, 10, variantStock(t, db, variant.ID))
}

func TestUpdateStatusPaymentAndFulfillment(t *testing.T) {
	db := newTestDB(t)
	order, _ := placeTestOrder(t, db, 1)
	orders := NewOrders(db)
	ctx := context.Background()

	paid := models.PaymentPaid
	fulfilled := models.FulfillmentFulfilled
	updated, err := orders.UpdateStatus(ctx, order.ID, UpdateStatusInput{
		PaymentStatus:     &paid,
		FulfillmentStatus: &fulfilled,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, models.FulfillmentFulfilled, updated.FulfillmentStatus)

	bogus := "settled"
	_, err = orders.UpdateStatus(ctx, order.ID, UpdateStatusInput{PaymentStatus: &bogus})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestDeleteHardRemovesWithoutRestoration(t *testing.T) {
	db := newTestDB(t)
	order, variant := placeTestOrder(t, db, 2)
	orders := NewOrders(db)

	require.NoError(t, orders.Delete(context.Background(), order.ID))

	// Deletion never compensates stock.
	assert.Equal(t, 8, variantStock(t, db, variant.ID))

	var headers, items int64
	db.Unscoped().Model(&models.Order{}).Count(&headers)
	db.Unscoped().Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, headers)
	assert.Zero(t, items)
}

func TestSweepRestoresFailedCompensation(t *testing.T) {
	db := newTestDB(t)
	order, variant := placeTestOrder(t, db, 3)
	ctx := context.Background()

	// A cancelled order whose compensation never landed.
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":         models.OrderCancelled,
			"stock_restored": false,
		}).Error)

	restored, err := NewReconciler(db).SweepCancelledOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, restored)
	assert.Equal(t, 10, variantStock(t, db, variant.ID))

	// The flag is set, so a second sweep finds nothing.
	restored, err = NewReconciler(db).SweepCancelledOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, restored)
	assert.Equal(t, 10, variantStock(t, db, variant.ID))
}
