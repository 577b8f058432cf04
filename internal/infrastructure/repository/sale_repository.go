package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	domainRepo "github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/pagination"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// CreateCommitted persists the sale and debits stock for every line in a
// single transaction. Debits use the guarded update, so two concurrent
// checkouts over the same product cannot both pass; all insufficient lines
// are collected before rolling back so the caller can name every offending
// product, not just the first.
func (r *saleRepository) CreateCommitted(ctx context.Context, sale *entity.Sale) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		for i := range sale.Details {
			detail := &sale.Details[i]

			updated, ok, err := debitStockTx(tx, detail.ProductID, detail.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				failedIDs = append(failedIDs, detail.ProductID)
				continue
			}

			if _, err := recordMovementTx(tx, detail.ProductID,
				updated.Stock+detail.Quantity, updated.Stock,
				domainRepo.MovementRef{
					Reason:      enum.LedgerReasonSaleDebit,
					ReferenceID: &sale.ID,
				}); err != nil {
				return err
			}
		}

		// Any failed line rolls back the entire transaction
		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		return nil
	})

	// Rolled back due to insufficient stock: report the failed IDs without
	// surfacing the transaction error
	if errors.Is(err, gorm.ErrInvalidTransaction) && len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return nil, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Details").Preload("Details.Product").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Details").
		Order("sale_date DESC").
		Find(&sales).Error

	return sales, total, err
}
