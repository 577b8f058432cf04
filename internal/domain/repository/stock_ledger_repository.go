package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/puntoventa/pos-api/pkg/pagination"
)

// ErrInsufficientStock is returned when a debit would drive stock negative.
// No mutation has happened when it is returned.
var ErrInsufficientStock = errors.New("insufficient stock")

// MovementRef attributes a stock adjustment to its causing operation
type MovementRef struct {
	Reason      enum.LedgerReason
	ReferenceID *uuid.UUID
	Notes       *string
}

// StockLedgerRepository is the single write path into product stock. Each
// adjustment is a guarded single-statement update serialized per product by
// the database, with the movement row written in the same transaction.
type StockLedgerRepository interface {
	// AdjustStock applies a signed delta. Debits that would go negative
	// return ErrInsufficientStock without mutating anything.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int, ref MovementRef) (*entity.StockMovement, error)

	// SetStock overwrites the stock with an absolute non-negative value,
	// recorded internally as a delta from the current value.
	SetStock(ctx context.Context, productID uuid.UUID, newStock int, notes *string) (*entity.StockMovement, error)

	// ListMovements returns the audit trail for a product, newest first.
	ListMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error)
}
