package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/apperror"
	"github.com/puntoventa/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SaleService turns a cart into a committed sale, debiting the ledger
// atomically. The cart is passed whole and immutable; there is no persisted
// intermediate state between validation and commit.
type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

// CartItemInput is one line of a checkout cart
type CartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	Items          []CartItemInput
	PaymentMethod  string
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Notes          *string
}

// Checkout validates the whole cart, captures each product's current price,
// and commits the sale with all stock debits in one atomic group. Either
// every line debits or none does; insufficient lines are reported by product
// name with stock untouched.
func (s *SaleService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "cart cannot be empty"},
		})
	}
	if input.PaymentMethod == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "payment_method", Message: "payment method is required"},
		})
	}
	if input.TaxAmount.IsNegative() || input.DiscountAmount.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "tax_amount", Message: "tax and discount amounts cannot be negative"},
		})
	}

	seen := make(map[uuid.UUID]bool, len(input.Items))
	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity", Message: "quantity must be a positive integer"},
			})
		}
		if seen[item.ProductID] {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "items", Message: fmt.Sprintf("duplicate product %s in cart", item.ProductID)},
			})
		}
		seen[item.ProductID] = true
		productIDs = append(productIDs, item.ProductID)
	}

	// Batch fetch all products in one query (prevents N+1)
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	subTotal := decimal.Zero
	details := make([]entity.SaleDetail, 0, len(input.Items))

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		// Capture the price at checkout time; later price changes must not
		// alter this sale.
		unitPrice := product.Price
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subTotal = subTotal.Add(subtotal)

		details = append(details, entity.SaleDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
	}

	total := subTotal.Add(input.TaxAmount).Sub(input.DiscountAmount)
	if total.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount_amount", Message: "discount exceeds the sale total"},
		})
	}

	sale := &entity.Sale{
		SaleDate:       time.Now(),
		PaymentMethod:  input.PaymentMethod,
		TaxAmount:      input.TaxAmount,
		DiscountAmount: input.DiscountAmount,
		TotalAmount:    total,
		Notes:          input.Notes,
		Details:        details,
	}

	failedIDs, err := s.saleRepo.CreateCommitted(ctx, sale)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		names := make([]string, 0, len(failedIDs))
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				names = append(names, product.Name)
			}
		}
		return nil, apperror.NewInsufficientStockError(names)
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// GetSale retrieves a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with pagination
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}
