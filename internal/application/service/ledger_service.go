package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/apperror"
	"github.com/puntoventa/pos-api/pkg/pagination"
)

// LedgerService is the stock ledger: every quantity change on a product
// flows through it (or through the repository helpers it shares with the
// checkout and receiving transactions) and leaves an attributable movement.
type LedgerService struct {
	ledgerRepo  repository.StockLedgerRepository
	productRepo repository.ProductRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
	}
}

// Adjust applies a signed, non-zero delta to a product's stock for the given
// reason. Debits that would drive stock negative fail with no mutation.
// Checkout and receipt writers do not call this; they credit and debit inside
// their own transactions through the shared stock helpers so the movement row
// commits with the sale or order it belongs to.
func (s *LedgerService) Adjust(ctx context.Context, productID uuid.UUID, delta int, reason enum.LedgerReason, referenceID *uuid.UUID, notes *string) (*entity.StockMovement, error) {
	if !reason.IsValid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown adjustment reason %q", reason))
	}
	if delta == 0 {
		return nil, apperror.NewBadRequestError("Adjustment delta must be non-zero")
	}
	switch reason {
	case enum.LedgerReasonSaleDebit:
		if delta > 0 {
			return nil, apperror.NewBadRequestError("Sale debits must carry a negative delta")
		}
	case enum.LedgerReasonReceiptCredit:
		if delta < 0 {
			return nil, apperror.NewBadRequestError("Receipt credits must carry a positive delta")
		}
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	movement, err := s.ledgerRepo.AdjustStock(ctx, productID, delta, repository.MovementRef{
		Reason:      reason,
		ReferenceID: referenceID,
		Notes:       notes,
	})
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, apperror.NewInsufficientStockError([]string{product.Name})
	}
	return movement, err
}

// CorrectStock overwrites a product's stock with an absolute value, applied
// internally as a delta from the current value so the movement trail stays a
// complete fold of every mutation.
func (s *LedgerService) CorrectStock(ctx context.Context, productID uuid.UUID, newStock int, notes *string) (*entity.StockMovement, error) {
	if newStock < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "stock", Message: "stock cannot be negative"},
		})
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	return s.ledgerRepo.SetStock(ctx, productID, newStock, notes)
}

// ListMovements returns the audit trail for a product, newest first
func (s *LedgerService) ListMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	movements, total, err := s.ledgerRepo.ListMovements(ctx, productID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}
