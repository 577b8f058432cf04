package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Code       string          `json:"code" binding:"required,max=50"`
	Name       string          `json:"name" binding:"required,min=2,max=200"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock" binding:"min=0"`
	MinStock   int             `json:"min_stock" binding:"min=0"`
	CategoryID *uuid.UUID      `json:"category_id"`
	SupplierID *uuid.UUID      `json:"supplier_id"`
}

// UpdateProductRequest represents a product update request. Stock and code are
// deliberately absent: stock moves through the ledger, code is immutable.
type UpdateProductRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=2,max=200"`
	Price      *decimal.Decimal `json:"price"`
	MinStock   *int             `json:"min_stock" binding:"omitempty,min=0"`
	CategoryID *uuid.UUID       `json:"category_id"`
	SupplierID *uuid.UUID       `json:"supplier_id"`
}

// CorrectStockRequest sets the absolute on-hand quantity of a product,
// recording the difference as a manual correction.
type CorrectStockRequest struct {
	Stock int     `json:"stock"`
	Notes *string `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	SupplierID string `form:"supplier_id"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
