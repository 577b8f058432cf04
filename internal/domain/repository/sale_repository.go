package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	// CreateCommitted persists the sale, its details, the stock debits and
	// their movement rows in one transaction. If any product lacks stock the
	// whole transaction rolls back and the offending product IDs are
	// returned; the sale is committed only when failedProductIDs is empty
	// and err is nil.
	CreateCommitted(ctx context.Context, sale *entity.Sale) (failedProductIDs []uuid.UUID, err error)

	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error)
}
