package services

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

// Inventory reads the stock ledger: per-location inventory records summed
// into an available total per variant.
//
// These reads are advisory — they feed catalog display and pre-flight cart
// checks, and may be stale by the time a checkout commits. The only
// authoritative stock gate is the row-locked re-check inside the checkout
// transaction.
type Inventory struct {
	db *gorm.DB
}

func NewInventory(db *gorm.DB) *Inventory {
	return &Inventory{db: db}
}

// AvailableStock returns the summed available quantity for one variant
// across every location. A variant with no ledger rows has zero stock.
// Disabled variants report their stock unchanged; orderability is checked
// elsewhere.
func (s *Inventory) AvailableStock(variantID uint) (int, error) {
	var total int64
	err := s.db.Model(&models.InventoryRecord{}).
		Where("variant_id = ?", variantID).
		Select("COALESCE(SUM(available), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, persistence("inventory read", err)
	}
	return int(total), nil
}

// AvailableStockBatch returns the summed stock for many variants in one
// query. Variants without ledger rows are present in the result with 0.
func (s *Inventory) AvailableStockBatch(variantIDs []uint) (map[uint]int, error) {
	out := make(map[uint]int, len(variantIDs))
	for _, id := range variantIDs {
		out[id] = 0
	}
	if len(variantIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		VariantID uint
		Total     int64
	}
	err := s.db.Model(&models.InventoryRecord{}).
		Where("variant_id IN ?", variantIDs).
		Select("variant_id, SUM(available) AS total").
		Group("variant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, persistence("inventory batch read", err)
	}

	for _, r := range rows {
		out[r.VariantID] = int(r.Total)
	}
	return out, nil
}

// Records returns the per-location ledger rows for one variant.
func (s *Inventory) Records(variantID uint) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := s.db.Where("variant_id = ?", variantID).
		Order("location_id ASC").Find(&records).Error
	if err != nil {
		return nil, persistence("inventory read", err)
	}
	return records, nil
}

// SetStock sets the absolute available quantity of one variant at one
// location, creating the ledger row on first write. Administrative only;
// sales never go through here.
func (s *Inventory) SetStock(variantID, locationID uint, available int) (*models.InventoryRecord, error) {
	if available < 0 {
		return nil, validationf("available quantity cannot be negative")
	}

	record := models.InventoryRecord{VariantID: variantID, LocationID: locationID}
	err := s.db.Where(models.InventoryRecord{VariantID: variantID, LocationID: locationID}).
		Assign(map[string]interface{}{"available": available}).
		FirstOrCreate(&record).Error
	if err != nil {
		return nil, persistence("inventory write", err)
	}
	record.Available = available
	return &record, nil
}

// Locations lists every stock-keeping location, oldest first.
func (s *Inventory) Locations() ([]models.Location, error) {
	var locations []models.Location
	if err := s.db.Order("id ASC").Find(&locations).Error; err != nil {
		return nil, persistence("locations read", err)
	}
	return locations, nil
}

// CreateLocation adds a stock-keeping location.
func (s *Inventory) CreateLocation(name string) (*models.Location, error) {
	if name == "" {
		return nil, validationf("location name is required")
	}
	location := models.Location{Name: name}
	if err := s.db.Create(&location).Error; err != nil {
		return nil, persistence("location create", err)
	}
	return &location, nil
}
