package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	domainRepo "github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type stockLedgerRepository struct {
	db *gorm.DB
}

// NewStockLedgerRepository creates a new stock ledger repository
func NewStockLedgerRepository(db *gorm.DB) domainRepo.StockLedgerRepository {
	return &stockLedgerRepository{db: db}
}

func (r *stockLedgerRepository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, ref domainRepo.MovementRef) (*entity.StockMovement, error) {
	var movement *entity.StockMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			updated *entity.Product
			ok      bool
			err     error
		)
		if delta < 0 {
			updated, ok, err = debitStockTx(tx, productID, -delta)
			if err != nil {
				return err
			}
			if !ok {
				return domainRepo.ErrInsufficientStock
			}
		} else {
			updated, ok, err = creditStockTx(tx, productID, delta)
			if err != nil {
				return err
			}
			if !ok {
				return gorm.ErrRecordNotFound
			}
		}

		movement, err = recordMovementTx(tx, productID, updated.Stock-delta, updated.Stock, ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *stockLedgerRepository) SetStock(ctx context.Context, productID uuid.UUID, newStock int, notes *string) (*entity.StockMovement, error) {
	var movement *entity.StockMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serializes the read-modify-write against concurrent
		// adjustments on the same product.
		var product entity.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			return err
		}

		previous := product.Stock
		if err := tx.Model(&entity.Product{}).
			Where("id = ?", productID).
			Update("stock", newStock).Error; err != nil {
			return err
		}

		var err error
		movement, err = recordMovementTx(tx, productID, previous, newStock, domainRepo.MovementRef{
			Reason: enum.LedgerReasonManualCorrection,
			Notes:  notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *stockLedgerRepository) ListMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StockMovement{}).
		Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("movement_date DESC").
		Find(&movements).Error

	return movements, total, err
}
