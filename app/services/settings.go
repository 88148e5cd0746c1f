package services

import (
	"strconv"
	"sync"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"gorm.io/gorm"
)

const settingsCacheKey = "vastra:settings"

// Settings is an explicit, explicitly-invalidated cache over the site-wide
// settings table. It is injected into the services that need it rather than
// living as ambient global state, and is invalidated on write — never polled
// on read.
type Settings struct {
	db *gorm.DB

	mu     sync.RWMutex
	loaded bool
	values map[string]string
}

func NewSettings(db *gorm.DB) *Settings {
	return &Settings{db: db}
}

// Get returns one setting, falling back when the key is absent or blank.
func (s *Settings) Get(key, fallback string) string {
	values, err := s.all()
	if err != nil {
		return fallback
	}
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Float returns one setting parsed as a decimal number.
func (s *Settings) Float(key string, fallback float64) float64 {
	raw := s.Get(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Put upserts a setting and invalidates both cache layers immediately.
func (s *Settings) Put(key, value string) error {
	setting := models.Setting{Key: key}
	err := s.db.Where(models.Setting{Key: key}).
		Assign(models.Setting{Value: value}).
		FirstOrCreate(&setting).Error
	if err != nil {
		return persistence("settings write", err)
	}

	s.Invalidate()
	return nil
}

// Invalidate drops the in-process copy and the shared Redis entry so the
// next read reloads from the database.
func (s *Settings) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.values = nil
	s.mu.Unlock()

	cache.Del(settingsCacheKey)
}

// ── Typed shortcuts used by checkout ─────────────────────────────────────────

// FreeShippingThreshold is the subtotal at or above which shipping is free.
// The settings table overrides the config default.
func (s *Settings) FreeShippingThreshold() float64 {
	return s.Float("free_shipping_threshold", config.FreeShippingThreshold())
}

// ShippingFlatFee is the flat fee charged below the free-shipping threshold.
func (s *Settings) ShippingFlatFee() float64 {
	return s.Float("shipping_flat_fee", config.ShippingFlatFee())
}

// Currency is the display currency code.
func (s *Settings) Currency() string {
	return s.Get("currency", config.Currency())
}

func (s *Settings) all() (map[string]string, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.values, nil
	}
	s.mu.RUnlock()

	// Try the shared Redis copy before hitting the database.
	var values map[string]string
	if !cache.Get(settingsCacheKey, &values) {
		var rows []models.Setting
		if err := s.db.Find(&rows).Error; err != nil {
			return nil, persistence("settings read", err)
		}
		values = make(map[string]string, len(rows))
		for _, row := range rows {
			values[row.Key] = row.Value
		}
		// TTL is a safety net only; writes invalidate explicitly.
		cache.Set(settingsCacheKey, values, time.Hour)
	}

	s.mu.Lock()
	s.values = values
	s.loaded = true
	s.mu.Unlock()

	return values, nil
}
