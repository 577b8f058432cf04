package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/puntoventa/pos-api/internal/application/service"
	"github.com/puntoventa/pos-api/internal/config"
	"github.com/puntoventa/pos-api/internal/infrastructure/database"
	"github.com/puntoventa/pos-api/internal/infrastructure/repository"
	"github.com/puntoventa/pos-api/internal/presentation/http/handler"
	"github.com/puntoventa/pos-api/internal/presentation/http/routes"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetLevel(logrus.DebugLevel)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed demo catalog on a fresh database
	if err := database.SeedDemoData(db); err != nil {
		log.Warnf("Failed to seed demo data: %v", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	ledgerRepo := repository.NewStockLedgerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo, supplierRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, productRepo)
	saleService := service.NewSaleService(saleRepo, productRepo)
	orderService := service.NewPurchaseOrderService(orderRepo, productRepo, supplierRepo, cfg.Restock.CostFactor)
	inventoryService := service.NewInventoryService(productRepo, orderService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:       handler.NewProductHandler(productService, ledgerService),
		Sale:          handler.NewSaleHandler(saleService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Supplier:      handler.NewSupplierHandler(supplierService),
	}

	// Purge expired idempotency keys in the background
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Warnf("Failed to purge expired idempotency keys: %v", err)
			}
		}
	}()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Infof("Starting %s server on port %s (env %s)", cfg.App.Name, port, cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
