package database

import (
	"fmt"
	"log"

	"github.com/puntoventa/pos-api/internal/config"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog entities
		&entity.Category{},
		&entity.Supplier{},
		&entity.Product{},

		// Transaction entities
		&entity.Sale{},
		&entity.SaleDetail{},
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderDetail{},

		// Ledger
		&entity.StockMovement{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDemoData seeds an empty database with a small grocery catalog so a
// fresh install has something to sell. Does nothing once products exist.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding demo catalog...")

	groceries := entity.Category{Name: "Abarrotes"}
	if err := db.Create(&groceries).Error; err != nil {
		return err
	}

	suppliers := []entity.Supplier{
		{Name: "Distribuidora Central", ContactPerson: "Juan Pérez", Phone: "555-0123", Email: ptr("juan@central.com")},
		{Name: "Granos del Valle", ContactPerson: "María García", Phone: "555-0456", Email: ptr("maria@granos.com")},
		{Name: "Aceites Premium", ContactPerson: "Carlos López", Phone: "555-0789", Email: ptr("carlos@aceites.com")},
	}
	for i := range suppliers {
		if err := db.Create(&suppliers[i]).Error; err != nil {
			return err
		}
	}

	products := []entity.Product{
		{Code: "ARR001", Name: "Libra de arroz", Price: decimal.NewFromFloat(0.50), Stock: 150, MinStock: 50, SupplierID: &suppliers[1].ID},
		{Code: "FRJ002", Name: "Frijoles negros", Price: decimal.NewFromFloat(0.75), Stock: 89, MinStock: 40, SupplierID: &suppliers[1].ID},
		{Code: "AZU003", Name: "Azúcar blanca", Price: decimal.NewFromFloat(0.60), Stock: 45, MinStock: 50, SupplierID: &suppliers[0].ID},
		{Code: "ACE004", Name: "Aceite vegetal", Price: decimal.NewFromFloat(1.25), Stock: 23, MinStock: 30, SupplierID: &suppliers[2].ID},
		{Code: "SAL005", Name: "Sal refinada", Price: decimal.NewFromFloat(0.35), Stock: 12, MinStock: 25, SupplierID: &suppliers[0].ID},
		{Code: "HAR006", Name: "Harina de trigo", Price: decimal.NewFromFloat(0.90), Stock: 8, MinStock: 20, SupplierID: &suppliers[1].ID},
	}
	for i := range products {
		products[i].CategoryID = &groceries.ID
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d products and %d suppliers", len(products), len(suppliers))
	return nil
}

func ptr(s string) *string {
	return &s
}
