package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/apperror"
	"github.com/puntoventa/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// PurchaseOrderService owns the purchase order lifecycle: creation, receiving
// (partial or full), and cancellation.
type PurchaseOrderService struct {
	orderRepo    repository.PurchaseOrderRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository

	// restockCostFactor is the policy fraction of the current sale price
	// suggested as unit cost for quick restock orders.
	restockCostFactor decimal.Decimal
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	orderRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	restockCostFactor decimal.Decimal,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		supplierRepo:      supplierRepo,
		restockCostFactor: restockCostFactor,
	}
}

// OrderItemInput represents a line item in a purchase order
type OrderItemInput struct {
	ProductID       uuid.UUID
	QuantityOrdered int
	UnitCost        decimal.Decimal
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	SupplierID       uuid.UUID
	ExpectedDelivery *time.Time
	Notes            *string
	Items            []OrderItemInput
}

// ReceiveItemInput is one delta of a receiving call
type ReceiveItemInput struct {
	DetailID uuid.UUID
	Quantity int
}

// CreateOrder creates a purchase order in pending status. The total is fixed
// at creation time as the historical record of the agreed value.
func (s *PurchaseOrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.PurchaseOrder, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "at least one line item is required"},
		})
	}

	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		if item.QuantityOrdered <= 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity_ordered", Message: "quantity ordered must be a positive integer"},
			})
		}
		if item.UnitCost.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "unit_cost", Message: "unit cost cannot be negative"},
			})
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	totalAmount := decimal.Zero
	details := make([]entity.PurchaseOrderDetail, 0, len(input.Items))
	for _, item := range input.Items {
		if _, exists := productMap[item.ProductID]; !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		totalCost := item.UnitCost.Mul(decimal.NewFromInt(int64(item.QuantityOrdered)))
		totalAmount = totalAmount.Add(totalCost)

		details = append(details, entity.PurchaseOrderDetail{
			ProductID:       item.ProductID,
			QuantityOrdered: item.QuantityOrdered,
			UnitCost:        item.UnitCost,
			TotalCost:       totalCost,
		})
	}

	orderNumber, err := s.generateOrderNumber(ctx, "PO")
	if err != nil {
		return nil, err
	}

	order := &entity.PurchaseOrder{
		OrderNumber:      orderNumber,
		SupplierID:       input.SupplierID,
		OrderDate:        time.Now(),
		ExpectedDelivery: input.ExpectedDelivery,
		Status:           enum.PurchaseOrderStatusPending,
		TotalAmount:      totalAmount,
		Notes:            input.Notes,
		Details:          details,
	}

	if err := s.orderRepo.CreateWithDetails(ctx, order); err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// QuickRestock creates a one-line purchase order for the product's linked
// supplier, suggesting the policy fraction of the current price as unit cost.
func (s *PurchaseOrderService) QuickRestock(ctx context.Context, productID uuid.UUID, quantity int) (*entity.PurchaseOrder, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "quantity must be a positive integer"},
		})
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if product.SupplierID == nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "supplier_id", Message: "no supplier configured for this product"},
		})
	}

	unitCost := product.Price.Mul(s.restockCostFactor).Round(2)
	totalCost := unitCost.Mul(decimal.NewFromInt(int64(quantity)))

	orderNumber, err := s.generateOrderNumber(ctx, "RST")
	if err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("Restock order for %s", product.Name)
	order := &entity.PurchaseOrder{
		OrderNumber: orderNumber,
		SupplierID:  *product.SupplierID,
		OrderDate:   time.Now(),
		Status:      enum.PurchaseOrderStatusPending,
		TotalAmount: totalCost,
		Notes:       &notes,
		Details: []entity.PurchaseOrderDetail{{
			ProductID:       productID,
			QuantityOrdered: quantity,
			UnitCost:        unitCost,
			TotalCost:       totalCost,
		}},
	}

	if err := s.orderRepo.CreateWithDetails(ctx, order); err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// Receive applies a batch of receipt deltas to the order. Everything is
// validated before anything is applied; the apply itself is one transaction
// crediting stock and advancing line counters together, transitioning the
// order to delivered when every line is full.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, items []ReceiveItemInput) (*entity.PurchaseOrder, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	// A delivered order falls through to per-line validation so a re-submitted
	// line fails as an over-receipt rather than a state error.
	if !order.Status.CanReceive() && order.Status != enum.PurchaseOrderStatusDelivered {
		return nil, apperror.NewStateError(fmt.Sprintf("Cannot receive items on a %s order", order.Status))
	}
	if len(items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "at least one receipt line is required"},
		})
	}

	detailMap := make(map[uuid.UUID]*entity.PurchaseOrderDetail, len(order.Details))
	for i := range order.Details {
		detailMap[order.Details[i].ID] = &order.Details[i]
	}

	lines := make([]repository.ReceiptLine, 0, len(items))
	requested := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity_received", Message: "received quantity must be a positive integer"},
			})
		}
		detail, exists := detailMap[item.DetailID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Line item %s", item.DetailID))
		}
		// Sum repeated entries for the same line so the batch total is what
		// gets checked against the pending quantity.
		requested[item.DetailID] += item.Quantity
		if requested[item.DetailID] > detail.PendingQuantity() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity_received", Message: fmt.Sprintf("exceeds pending quantity for line %s", item.DetailID)},
			})
		}
		lines = append(lines, repository.ReceiptLine{
			DetailID:  item.DetailID,
			ProductID: detail.ProductID,
			Quantity:  item.Quantity,
		})
	}

	updated, err := s.orderRepo.ApplyReceipt(ctx, orderID, lines)
	if errors.Is(err, repository.ErrReceiptConflict) {
		return nil, apperror.NewConflictError("Receipt lost a concurrent update; nothing was applied")
	}
	return updated, err
}

// ReceiveAll receives every remaining quantity on the order in one batch
func (s *PurchaseOrderService) ReceiveAll(ctx context.Context, orderID uuid.UUID) (*entity.PurchaseOrder, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	if !order.Status.CanReceive() {
		return nil, apperror.NewStateError(fmt.Sprintf("Cannot receive items on a %s order", order.Status))
	}

	items := make([]ReceiveItemInput, 0, len(order.Details))
	for _, detail := range order.Details {
		if pending := detail.PendingQuantity(); pending > 0 {
			items = append(items, ReceiveItemInput{DetailID: detail.ID, Quantity: pending})
		}
	}
	if len(items) == 0 {
		return nil, apperror.NewStateError("Order has nothing left to receive")
	}

	return s.Receive(ctx, orderID, items)
}

// Cancel cancels a pending order that has received nothing. Terminal; no
// ledger effect.
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Purchase order")
	}
	if order.Status != enum.PurchaseOrderStatusPending {
		return apperror.NewStateError(fmt.Sprintf("Cannot cancel a %s order", order.Status))
	}
	if order.HasReceipts() {
		return apperror.NewStateError("Cannot cancel an order with received items")
	}

	ok, err := s.orderRepo.CancelPending(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewConflictError("Order changed concurrently; cancellation not applied")
	}
	return nil
}

// GetOrder retrieves a purchase order by ID
func (s *PurchaseOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	return order, nil
}

// GetOrderItems retrieves the line items of a purchase order
func (s *PurchaseOrderService) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]entity.PurchaseOrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	return s.orderRepo.GetDetails(ctx, orderID)
}

// ListOrders lists purchase orders with filtering
func (s *PurchaseOrderService) ListOrders(ctx context.Context, params *repository.PurchaseOrderFilterParams) (*pagination.PaginatedResult[entity.PurchaseOrder], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// generateOrderNumber produces a unique human-readable order number
func (s *PurchaseOrderService) generateOrderNumber(ctx context.Context, prefix string) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		candidate := fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), uuid.New().String()[:8])
		exists, err := s.orderRepo.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperror.NewConflictError("Could not generate a unique order number")
}
