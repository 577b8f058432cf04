package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/puntoventa/pos-api/internal/config"
	domainRepo "github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/internal/presentation/http/handler"
	"github.com/puntoventa/pos-api/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product       *handler.ProductHandler
	Sale          *handler.SaleHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Inventory     *handler.InventoryHandler
	Supplier      *handler.SupplierHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             *logrus.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		registerRoutes(v1, h, deps)
	}

	return router
}

func registerRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	// Products
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.PATCH("/:id/stock", h.Product.CorrectStock)
		products.GET("/:id/movements", h.Product.ListMovements)
	}

	// Sales
	sales := v1.Group("/sales")
	{
		sales.POST("", idempotency, h.Sale.Create)
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
	}

	// Inventory
	inventory := v1.Group("/inventory")
	{
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.POST("/restock/:productId", idempotency, h.Inventory.Restock)
	}

	// Purchase orders
	orders := v1.Group("/purchase-orders")
	{
		orders.GET("", h.PurchaseOrder.List)
		orders.POST("", h.PurchaseOrder.Create)
		orders.GET("/:id", h.PurchaseOrder.Get)
		orders.GET("/:id/items", h.PurchaseOrder.GetItems)
		orders.POST("/:id/receive", idempotency, h.PurchaseOrder.Receive)
		orders.POST("/:id/receive-all", idempotency, h.PurchaseOrder.ReceiveAll)
		orders.POST("/:id/cancel", h.PurchaseOrder.Cancel)
	}

	// Suppliers
	suppliers := v1.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
	}
}
