package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/repository"
)

// LowStockItem is a reorder report row for a product at or below its
// threshold.
type LowStockItem struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductCode  string    `json:"product_code"`
	ProductName  string    `json:"product_name"`
	CurrentStock int       `json:"current_stock"`
	MinStock     int       `json:"min_stock"`
	SupplierName *string   `json:"supplier_name,omitempty"`
}

// InventoryService provides the reorder report and the quick restock shortcut
type InventoryService struct {
	productRepo  repository.ProductRepository
	orderService *PurchaseOrderService
}

// NewInventoryService creates a new inventory service
func NewInventoryService(productRepo repository.ProductRepository, orderService *PurchaseOrderService) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		orderService: orderService,
	}
}

// LowStock returns every product whose stock is at or below its minimum,
// most urgent first.
func (s *InventoryService) LowStock(ctx context.Context) ([]LowStockItem, error) {
	products, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(products))
	for _, product := range products {
		item := LowStockItem{
			ProductID:    product.ID,
			ProductCode:  product.Code,
			ProductName:  product.Name,
			CurrentStock: product.Stock,
			MinStock:     product.MinStock,
		}
		if product.Supplier != nil {
			name := product.Supplier.Name
			item.SupplierName = &name
		}
		items = append(items, item)
	}
	return items, nil
}

// Restock creates a quick restock purchase order for the product
func (s *InventoryService) Restock(ctx context.Context, productID uuid.UUID, quantity int) (*entity.PurchaseOrder, error) {
	return s.orderService.QuickRestock(ctx, productID, quantity)
}
