package migrations

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/migration"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260301000002_create_inventory_tables", &CreateInventoryTables{})
	migration.Register("20260301000003_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260301000004_create_settings_table", &CreateSettingsTable{})
	migration.Register("20260301000005_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: products and variants --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Variant{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("variants", "products")
}

// -------- 0002: locations and the stock ledger --------

type CreateInventoryTables struct{}

func (m *CreateInventoryTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Location{}, &models.InventoryRecord{})
}

func (m *CreateInventoryTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("inventory_records", "locations")
}

// -------- 0003: orders and their items --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}

// -------- 0004: site settings --------

type CreateSettingsTable struct{}

func (m *CreateSettingsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Setting{})
}

func (m *CreateSettingsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("settings")
}

// -------- 0005: failed queue jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
