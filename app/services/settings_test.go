package services

import (
	"testing"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFallbacks(t *testing.T) {
	db := newTestDB(t)
	s := NewSettings(db)

	assert.Equal(t, "fallback", s.Get("missing", "fallback"))
	assert.Equal(t, 42.0, s.Float("missing", 42))

	// Config defaults back the typed shortcuts when the table is empty.
	assert.Equal(t, 100.0, s.FreeShippingThreshold())
	assert.Equal(t, 9.99, s.ShippingFlatFee())
	assert.Equal(t, "INR", s.Currency())
}

func TestSettingsPutInvalidatesCache(t *testing.T) {
	db := newTestDB(t)
	s := NewSettings(db)

	require.NoError(t, s.Put("free_shipping_threshold", "500"))
	assert.Equal(t, 500.0, s.FreeShippingThreshold())

	// The settings cache serves reads; a write must be visible immediately.
	require.NoError(t, s.Put("free_shipping_threshold", "750"))
	assert.Equal(t, 750.0, s.FreeShippingThreshold())

	// Upsert, not append.
	var count int64
	db.Model(&models.Setting{}).Where("key = ?", "free_shipping_threshold").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSettingsStaleCacheWithoutWrite(t *testing.T) {
	db := newTestDB(t)
	s := NewSettings(db)

	require.NoError(t, s.Put("currency", "USD"))
	assert.Equal(t, "USD", s.Currency())

	// A write that bypasses the service is invisible until invalidation:
	// reads are cache-first by design.
	require.NoError(t, db.Model(&models.Setting{}).
		Where("key = ?", "currency").Update("value", "EUR").Error)
	assert.Equal(t, "USD", s.Currency())

	s.Invalidate()
	assert.Equal(t, "EUR", s.Currency())
}

func TestSettingsBlankValueFallsBack(t *testing.T) {
	db := newTestDB(t)
	s := NewSettings(db)

	require.NoError(t, s.Put("support_email", ""))
	assert.Equal(t, "none", s.Get("support_email", "none"))

	require.NoError(t, s.Put("shipping_flat_fee", "not-a-number"))
	assert.Equal(t, 9.99, s.ShippingFlatFee())
}
