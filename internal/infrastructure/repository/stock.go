package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	domainRepo "github.com/puntoventa/pos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// This file holds the only statements in the repository layer that write
// products.stock. Both writers into the ledger (checkout and receiving) go
// through these helpers, so the stock >= 0 guard and the movement audit row
// cannot drift apart.

// debitStockTx decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET stock = stock - x WHERE id = ? AND stock >= x
// The RETURNING clause yields the post-update row, so callers know the new
// stock without a second read. ok is false when the guard rejected the debit.
func debitStockTx(tx *gorm.DB, productID uuid.UUID, quantity int) (updated *entity.Product, ok bool, err error) {
	var product entity.Product
	result := tx.Model(&product).
		Clauses(clause.Returning{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &product, true, nil
}

// creditStockTx increments stock unconditionally. ok is false only when the
// product row does not exist.
func creditStockTx(tx *gorm.DB, productID uuid.UUID, quantity int) (updated *entity.Product, ok bool, err error) {
	var product entity.Product
	result := tx.Model(&product).
		Clauses(clause.Returning{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &product, true, nil
}

// recordMovementTx writes the audit row for a stock change that moved the
// product from previousStock to newStock within the same transaction.
func recordMovementTx(tx *gorm.DB, productID uuid.UUID, previousStock, newStock int, ref domainRepo.MovementRef) (*entity.StockMovement, error) {
	movement := &entity.StockMovement{
		ProductID:     productID,
		MovementType:  ref.Reason.MovementType(),
		Quantity:      newStock - previousStock,
		ReferenceType: referenceTypeFor(ref.Reason),
		ReferenceID:   ref.ReferenceID,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Notes:         ref.Notes,
		MovementDate:  time.Now(),
	}
	if err := tx.Create(movement).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

func referenceTypeFor(reason enum.LedgerReason) enum.ReferenceType {
	switch reason {
	case enum.LedgerReasonSaleDebit:
		return enum.ReferenceTypeSale
	case enum.LedgerReasonReceiptCredit:
		return enum.ReferenceTypePurchaseOrder
	default:
		return enum.ReferenceTypeAdjustment
	}
}
