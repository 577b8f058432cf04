package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/puntoventa/pos-api/pkg/pagination"
)

// ErrReceiptConflict is returned when a receipt lost a race against a
// concurrent update; the whole batch has been rolled back.
var ErrReceiptConflict = errors.New("receipt conflicts with a concurrent update")

// ReceiptLine is one validated delta applied by a receiving call
type ReceiptLine struct {
	DetailID  uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// PurchaseOrderFilterParams holds filtering options for listing orders
type PurchaseOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.PurchaseOrderStatus
	SupplierID *uuid.UUID
}

// PurchaseOrderRepository defines the interface for purchase order data access
type PurchaseOrderRepository interface {
	// CreateWithDetails persists the order and its line items in one
	// transaction.
	CreateWithDetails(ctx context.Context, order *entity.PurchaseOrder) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	GetDetails(ctx context.Context, orderID uuid.UUID) ([]entity.PurchaseOrderDetail, error)
	List(ctx context.Context, params *PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)

	// ApplyReceipt applies the validated deltas in one transaction: line
	// counters advance under a quantity_ordered guard, stock is credited,
	// movement rows are written, and the order transitions to delivered
	// when every line is full. Races on the guards return
	// ErrReceiptConflict with nothing applied.
	ApplyReceipt(ctx context.Context, orderID uuid.UUID, lines []ReceiptLine) (*entity.PurchaseOrder, error)

	// CancelPending sets the order to cancelled only while it is still
	// pending with no received quantity on any line. Returns false when the
	// guard did not match.
	CancelPending(ctx context.Context, orderID uuid.UUID) (bool, error)
}
