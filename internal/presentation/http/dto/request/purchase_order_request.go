package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line item of a purchase order creation request
type OrderItemRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	QuantityOrdered int             `json:"quantity_ordered" binding:"required,min=1"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a purchase order creation request
type CreatePurchaseOrderRequest struct {
	SupplierID       uuid.UUID          `json:"supplier_id" binding:"required"`
	ExpectedDelivery *time.Time         `json:"expected_delivery"`
	Notes            *string            `json:"notes"`
	Items            []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReceiveItemRequest is one receipt delta of a receiving request
type ReceiveItemRequest struct {
	DetailID uuid.UUID `json:"detail_id" binding:"required"`
	Quantity int       `json:"quantity_received" binding:"required,min=1"`
}

// ReceiveOrderRequest represents a partial or full receiving request
type ReceiveOrderRequest struct {
	Items []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderFilterRequest represents purchase order filter parameters
type PurchaseOrderFilterRequest struct {
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
