package services

import (
	"testing"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableStockSumsLocations(t *testing.T) {
	db := newTestDB(t)
	_, variant := seedProduct(t, db, "KUR", 100, 4)
	inv := NewInventory(db)

	second := models.Location{Name: "Outlet"}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&models.InventoryRecord{
		VariantID: variant.ID, LocationID: second.ID, Available: 6,
	}).Error)

	total, err := inv.AvailableStock(variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	// No ledger rows means zero, not an error.
	total, err = inv.AvailableStock(9999)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAvailableStockBatch(t *testing.T) {
	db := newTestDB(t)
	_, v1 := seedProduct(t, db, "KUR", 100, 3)
	_, v2 := seedProduct(t, db, "DUP", 50, 7)
	inv := NewInventory(db)

	out, err := inv.AvailableStockBatch([]uint{v1.ID, v2.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, 3, out[v1.ID])
	assert.Equal(t, 7, out[v2.ID])
	assert.Zero(t, out[9999])

	out, err = inv.AvailableStockBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSetStockUpsertsLedgerRow(t *testing.T) {
	db := newTestDB(t)
	_, variant := seedProduct(t, db, "KUR", 100, 3)
	inv := NewInventory(db)

	location := models.Location{Name: "Outlet"}
	require.NoError(t, db.Create(&location).Error)

	// First write creates the row.
	record, err := inv.SetStock(variant.ID, location.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, record.Available)
	assert.Equal(t, 15, variantStock(t, db, variant.ID))

	// Second write on the same slot is absolute, not additive.
	record, err = inv.SetStock(variant.ID, location.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, record.Available)
	assert.Equal(t, 8, variantStock(t, db, variant.ID))

	_, err = inv.SetStock(variant.ID, location.ID, -1)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestLocations(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventory(db)

	created, err := inv.CreateLocation("Main Warehouse")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = inv.CreateLocation("")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	locations, err := inv.Locations()
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Main Warehouse", locations[0].Name)
}
