package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/pagination"
)

// In-memory fakes sharing one product map, so ledger and sale mutations are
// visible to product reads the way they are against a real database.

type mockProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (m *mockProductRepo) add(p *entity.Product) *entity.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepo) Create(ctx context.Context, product *entity.Product) error {
	m.add(product)
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range m.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *entity.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range m.products {
		if params.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range m.products {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockLedgerRepo struct {
	products  *mockProductRepo
	movements []entity.StockMovement
}

func newMockLedgerRepo(products *mockProductRepo) *mockLedgerRepo {
	return &mockLedgerRepo{products: products}
}

func (m *mockLedgerRepo) record(productID uuid.UUID, prev, next int, ref repository.MovementRef) *entity.StockMovement {
	movement := entity.StockMovement{
		ID:            uuid.New(),
		ProductID:     productID,
		MovementType:  ref.Reason.MovementType(),
		Quantity:      next - prev,
		ReferenceID:   ref.ReferenceID,
		PreviousStock: prev,
		NewStock:      next,
		Notes:         ref.Notes,
		MovementDate:  time.Now(),
	}
	m.movements = append(m.movements, movement)
	return &movement
}

func (m *mockLedgerRepo) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, ref repository.MovementRef) (*entity.StockMovement, error) {
	product, ok := m.products.products[productID]
	if !ok {
		return nil, repository.ErrInsufficientStock
	}
	if delta < 0 && product.Stock+delta < 0 {
		return nil, repository.ErrInsufficientStock
	}
	prev := product.Stock
	product.Stock += delta
	return m.record(productID, prev, product.Stock, ref), nil
}

func (m *mockLedgerRepo) SetStock(ctx context.Context, productID uuid.UUID, newStock int, notes *string) (*entity.StockMovement, error) {
	product := m.products.products[productID]
	prev := product.Stock
	product.Stock = newStock
	return m.record(productID, prev, newStock, repository.MovementRef{
		Reason: enum.LedgerReasonManualCorrection,
		Notes:  notes,
	}), nil
}

func (m *mockLedgerRepo) ListMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	var out []entity.StockMovement
	for _, mv := range m.movements {
		if mv.ProductID == productID {
			out = append(out, mv)
		}
	}
	return out, int64(len(out)), nil
}

type mockSaleRepo struct {
	products *mockProductRepo
	ledger   *mockLedgerRepo
	sales    map[uuid.UUID]*entity.Sale
}

func newMockSaleRepo(products *mockProductRepo, ledger *mockLedgerRepo) *mockSaleRepo {
	return &mockSaleRepo{products: products, ledger: ledger, sales: make(map[uuid.UUID]*entity.Sale)}
}

func (m *mockSaleRepo) CreateCommitted(ctx context.Context, sale *entity.Sale) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for _, d := range sale.Details {
		product, ok := m.products.products[d.ProductID]
		if !ok || product.Stock < d.Quantity {
			failed = append(failed, d.ProductID)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}

	sale.ID = uuid.New()
	for i := range sale.Details {
		sale.Details[i].ID = uuid.New()
		sale.Details[i].SaleID = sale.ID
		saleID := sale.ID
		if _, err := m.ledger.AdjustStock(ctx, sale.Details[i].ProductID, -sale.Details[i].Quantity, repository.MovementRef{
			Reason:      enum.LedgerReasonSaleDebit,
			ReferenceID: &saleID,
		}); err != nil {
			return nil, err
		}
	}
	m.sales[sale.ID] = sale
	return nil, nil
}

func (m *mockSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return m.sales[id], nil
}

func (m *mockSaleRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range m.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type mockOrderRepo struct {
	products *mockProductRepo
	ledger   *mockLedgerRepo
	orders   map[uuid.UUID]*entity.PurchaseOrder
}

func newMockOrderRepo(products *mockProductRepo, ledger *mockLedgerRepo) *mockOrderRepo {
	return &mockOrderRepo{products: products, ledger: ledger, orders: make(map[uuid.UUID]*entity.PurchaseOrder)}
}

func (m *mockOrderRepo) CreateWithDetails(ctx context.Context, order *entity.PurchaseOrder) error {
	order.ID = uuid.New()
	for i := range order.Details {
		order.Details[i].ID = uuid.New()
		order.Details[i].PurchaseOrderID = order.ID
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	// copy so callers cannot mutate stored state between calls
	cp := *order
	cp.Details = append([]entity.PurchaseOrderDetail(nil), order.Details...)
	return &cp, nil
}

func (m *mockOrderRepo) GetDetails(ctx context.Context, orderID uuid.UUID) ([]entity.PurchaseOrderDetail, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	return order.Details, nil
}

func (m *mockOrderRepo) List(ctx context.Context, params *repository.PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error) {
	var out []entity.PurchaseOrder
	for _, o := range m.orders {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		if params.SupplierID != nil && o.SupplierID != *params.SupplierID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrderRepo) ApplyReceipt(ctx context.Context, orderID uuid.UUID, lines []repository.ReceiptLine) (*entity.PurchaseOrder, error) {
	order, ok := m.orders[orderID]
	if !ok || !order.Status.CanReceive() {
		return nil, repository.ErrReceiptConflict
	}

	detailByID := make(map[uuid.UUID]*entity.PurchaseOrderDetail)
	for i := range order.Details {
		detailByID[order.Details[i].ID] = &order.Details[i]
	}
	for _, line := range lines {
		detail, ok := detailByID[line.DetailID]
		if !ok || detail.QuantityReceived+line.Quantity > detail.QuantityOrdered {
			return nil, repository.ErrReceiptConflict
		}
	}

	for _, line := range lines {
		detail := detailByID[line.DetailID]
		detail.QuantityReceived += line.Quantity
		ref := orderID
		if _, err := m.ledger.AdjustStock(ctx, line.ProductID, line.Quantity, repository.MovementRef{
			Reason:      enum.LedgerReasonReceiptCredit,
			ReferenceID: &ref,
		}); err != nil {
			return nil, err
		}
	}

	if order.IsFullyReceived() {
		order.Status = enum.PurchaseOrderStatusDelivered
		now := time.Now()
		order.ReceivedDate = &now
	}
	return m.GetWithDetails(ctx, orderID)
}

func (m *mockOrderRepo) CancelPending(ctx context.Context, orderID uuid.UUID) (bool, error) {
	order, ok := m.orders[orderID]
	if !ok || order.Status != enum.PurchaseOrderStatusPending || order.HasReceipts() {
		return false, nil
	}
	order.Status = enum.PurchaseOrderStatusCancelled
	return true, nil
}

type mockSupplierRepo struct {
	suppliers map[uuid.UUID]*entity.Supplier
}

func newMockSupplierRepo() *mockSupplierRepo {
	return &mockSupplierRepo{suppliers: make(map[uuid.UUID]*entity.Supplier)}
}

func (m *mockSupplierRepo) add(s *entity.Supplier) *entity.Supplier {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.suppliers[s.ID] = s
	return s
}

func (m *mockSupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	m.add(supplier)
	return nil
}

func (m *mockSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	return m.suppliers[id], nil
}

func (m *mockSupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *mockSupplierRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error) {
	var out []entity.Supplier
	for _, s := range m.suppliers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}
