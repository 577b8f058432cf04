package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	domainRepo "github.com/puntoventa/pos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) domainRepo.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) CreateWithDetails(ctx context.Context, order *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *purchaseOrderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Details").Preload("Details.Product").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *purchaseOrderRepository) GetDetails(ctx context.Context, orderID uuid.UUID) ([]entity.PurchaseOrderDetail, error) {
	var details []entity.PurchaseOrderDetail
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("purchase_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&details).Error
	return details, err
}

func (r *purchaseOrderRepository) List(ctx context.Context, params *domainRepo.PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error) {
	var orders []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Supplier").Preload("Details").
		Order("order_date DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *purchaseOrderRepository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	return count > 0, err
}

// ApplyReceipt applies a validated batch of receipt deltas atomically. The
// order row is locked for the duration, line counters advance under a
// quantity_ordered guard, and every credit writes its movement row via the
// shared ledger helpers. A guard rejecting a line means a concurrent update
// won the race after the caller's validation; the whole batch rolls back.
func (r *purchaseOrderRepository) ApplyReceipt(ctx context.Context, orderID uuid.UUID, lines []domainRepo.ReceiptLine) (*entity.PurchaseOrder, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.PurchaseOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		if !order.Status.CanReceive() {
			return domainRepo.ErrReceiptConflict
		}

		for _, line := range lines {
			result := tx.Model(&entity.PurchaseOrderDetail{}).
				Where("id = ? AND purchase_order_id = ? AND quantity_received + ? <= quantity_ordered",
					line.DetailID, orderID, line.Quantity).
				Update("quantity_received", gorm.Expr("quantity_received + ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainRepo.ErrReceiptConflict
			}

			updated, ok, err := creditStockTx(tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return gorm.ErrRecordNotFound
			}

			if _, err := recordMovementTx(tx, line.ProductID,
				updated.Stock-line.Quantity, updated.Stock,
				domainRepo.MovementRef{
					Reason:      enum.LedgerReasonReceiptCredit,
					ReferenceID: &orderID,
				}); err != nil {
				return err
			}
		}

		// Re-evaluate order status: delivered iff every line is full
		var pending int64
		if err := tx.Model(&entity.PurchaseOrderDetail{}).
			Where("purchase_order_id = ? AND quantity_received < quantity_ordered", orderID).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending == 0 {
			now := time.Now()
			if err := tx.Model(&entity.PurchaseOrder{}).
				Where("id = ?", orderID).
				Updates(map[string]interface{}{
					"status":        enum.PurchaseOrderStatusDelivered,
					"received_date": now,
				}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetWithDetails(ctx, orderID)
}

// CancelPending cancels the order only while it is still pending and nothing
// has been received on any line; the guard makes the check and the write one
// atomic statement.
func (r *purchaseOrderRepository) CancelPending(ctx context.Context, orderID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where(`id = ? AND status = ? AND NOT EXISTS (
			SELECT 1 FROM purchase_order_details d
			WHERE d.purchase_order_id = purchase_orders.id AND d.quantity_received > 0
		)`, orderID, enum.PurchaseOrderStatusPending).
		Update("status", enum.PurchaseOrderStatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
