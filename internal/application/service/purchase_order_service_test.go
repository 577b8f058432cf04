package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/apperror"
	"github.com/puntoventa/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc       *PurchaseOrderService
	products  *mockProductRepo
	suppliers *mockSupplierRepo
	orders    *mockOrderRepo
	ledger    *mockLedgerRepo
	supplier  *entity.Supplier
	oil       *entity.Product
	flour     *entity.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	products := newMockProductRepo()
	suppliers := newMockSupplierRepo()
	ledger := newMockLedgerRepo(products)
	orders := newMockOrderRepo(products, ledger)

	f := &orderFixture{
		products:  products,
		suppliers: suppliers,
		orders:    orders,
		ledger:    ledger,
	}
	f.supplier = suppliers.add(&entity.Supplier{Name: "Aceites Premium", ContactPerson: "Carlos López", Phone: "555-0789"})
	f.oil = products.add(&entity.Product{Code: "ACE004", Name: "Aceite vegetal", Price: decimal.NewFromFloat(1.25), Stock: 23, MinStock: 30, SupplierID: &f.supplier.ID})
	f.flour = products.add(&entity.Product{Code: "HAR006", Name: "Harina de trigo", Price: decimal.NewFromFloat(0.90), Stock: 8, MinStock: 20, SupplierID: &f.supplier.ID})
	f.svc = NewPurchaseOrderService(orders, products, suppliers, decimal.NewFromFloat(0.80))
	return f
}

func (f *orderFixture) createOrder(t *testing.T, items ...OrderItemInput) *entity.PurchaseOrder {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		SupplierID: f.supplier.ID,
		Items:      items,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)

	order := f.createOrder(t,
		OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 40, UnitCost: decimal.NewFromFloat(1.00)},
		OrderItemInput{ProductID: f.flour.ID, QuantityOrdered: 20, UnitCost: decimal.NewFromFloat(0.70)},
	)

	assert.Equal(t, enum.PurchaseOrderStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "PO-"))
	// 40*1.00 + 20*0.70 = 54.00
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(54.00)), "total %s", order.TotalAmount)
	require.Len(t, order.Details, 2)
	assert.Equal(t, 0, order.Details[0].QuantityReceived)

	// ordering is not receiving: stock untouched
	assert.Equal(t, 23, f.products.products[f.oil.ID].Stock)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, &CreateOrderInput{SupplierID: uuid.New(), Items: []OrderItemInput{
		{ProductID: f.oil.ID, QuantityOrdered: 1},
	}})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	_, err = f.svc.CreateOrder(ctx, &CreateOrderInput{SupplierID: f.supplier.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = f.svc.CreateOrder(ctx, &CreateOrderInput{SupplierID: f.supplier.ID, Items: []OrderItemInput{
		{ProductID: f.oil.ID, QuantityOrdered: 0},
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = f.svc.CreateOrder(ctx, &CreateOrderInput{SupplierID: f.supplier.ID, Items: []OrderItemInput{
		{ProductID: f.oil.ID, QuantityOrdered: 1, UnitCost: decimal.NewFromFloat(-0.10)},
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = f.svc.CreateOrder(ctx, &CreateOrderInput{SupplierID: f.supplier.ID, Items: []OrderItemInput{
		{ProductID: uuid.New(), QuantityOrdered: 1},
	}})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestQuickRestock(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.QuickRestock(context.Background(), f.oil.ID, 50)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "RST-"))
	assert.Equal(t, f.supplier.ID, order.SupplierID)
	require.Len(t, order.Details, 1)
	// 0.80 * 1.25 = 1.00 suggested unit cost
	assert.True(t, order.Details[0].UnitCost.Equal(decimal.NewFromFloat(1.00)),
		"unit cost %s", order.Details[0].UnitCost)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(50.00)))
	require.NotNil(t, order.Notes)
	assert.Contains(t, *order.Notes, "Aceite vegetal")
}

func TestQuickRestock_NoSupplierConfigured(t *testing.T) {
	f := newOrderFixture(t)
	orphan := f.products.add(&entity.Product{Code: "SAL005", Name: "Sal refinada", Price: decimal.NewFromFloat(0.35), Stock: 12, MinStock: 25})

	_, err := f.svc.QuickRestock(context.Background(), orphan.ID, 30)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "supplier_id", appErr.Errors[0].Field)
}

func TestQuickRestock_InvalidQuantity(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.QuickRestock(context.Background(), f.oil.ID, 0)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestReceive_PartialThenComplete(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 40, UnitCost: decimal.NewFromFloat(1.00)})
	ctx := context.Background()

	partial, err := f.svc.Receive(ctx, order.ID, []ReceiveItemInput{
		{DetailID: order.Details[0].ID, Quantity: 15},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.PurchaseOrderStatusPending, partial.Status)
	assert.Equal(t, 15, partial.Details[0].QuantityReceived)
	assert.Equal(t, 38, f.products.products[f.oil.ID].Stock)
	assert.Nil(t, partial.ReceivedDate)

	full, err := f.svc.Receive(ctx, order.ID, []ReceiveItemInput{
		{DetailID: order.Details[0].ID, Quantity: 25},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.PurchaseOrderStatusDelivered, full.Status)
	assert.Equal(t, 40, full.Details[0].QuantityReceived)
	assert.Equal(t, 63, f.products.products[f.oil.ID].Stock)
	assert.NotNil(t, full.ReceivedDate)

	// each receipt left a credit movement attributed to the order
	movements, _, err := f.ledger.ListMovements(ctx, f.oil.ID, nil)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, enum.MovementTypePurchase, movements[0].MovementType)
	assert.Equal(t, order.ID, *movements[0].ReferenceID)
}

func TestReceive_OverReceiptRejectedWholeBatch(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t,
		OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)},
		OrderItemInput{ProductID: f.flour.ID, QuantityOrdered: 5, UnitCost: decimal.NewFromFloat(0.70)},
	)

	_, err := f.svc.Receive(context.Background(), order.ID, []ReceiveItemInput{
		{DetailID: order.Details[0].ID, Quantity: 10},
		{DetailID: order.Details[1].ID, Quantity: 6}, // only 5 ordered
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	// nothing applied, including the valid line
	reloaded, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Details[0].QuantityReceived)
	assert.Equal(t, 23, f.products.products[f.oil.ID].Stock)
}

func TestReceive_FullyReceivedLineRejectedAsOverReceipt(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 100, UnitCost: decimal.NewFromFloat(1.00)})
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, order.ID, []ReceiveItemInput{{DetailID: order.Details[0].ID, Quantity: 40}})
	require.NoError(t, err)
	full, err := f.svc.Receive(ctx, order.ID, []ReceiveItemInput{{DetailID: order.Details[0].ID, Quantity: 60}})
	require.NoError(t, err)
	require.Equal(t, enum.PurchaseOrderStatusDelivered, full.Status)

	// a re-submitted receipt on the full line is an over-receipt, not a state error
	_, err = f.svc.Receive(ctx, order.ID, []ReceiveItemInput{{DetailID: order.Details[0].ID, Quantity: 10}})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Contains(t, appErr.Errors[0].Message, "exceeds pending quantity")
	assert.Equal(t, 23+100, f.products.products[f.oil.ID].Stock)
}

func TestReceive_DuplicateLinesSummedAgainstPending(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)})

	// 6 + 6 for a line with 10 pending must fail validation as one batch
	_, err := f.svc.Receive(context.Background(), order.ID, []ReceiveItemInput{
		{DetailID: order.Details[0].ID, Quantity: 6},
		{DetailID: order.Details[0].ID, Quantity: 6},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Contains(t, appErr.Errors[0].Message, "exceeds pending quantity")
	assert.Equal(t, 23, f.products.products[f.oil.ID].Stock)
}

func TestReceive_ForeignDetailRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)})
	other := f.createOrder(t, OrderItemInput{ProductID: f.flour.ID, QuantityOrdered: 5, UnitCost: decimal.NewFromFloat(0.70)})

	_, err := f.svc.Receive(context.Background(), order.ID, []ReceiveItemInput{
		{DetailID: other.Details[0].ID, Quantity: 1},
	})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestReceive_TerminalStatusRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)})
	ctx := context.Background()

	require.NoError(t, f.svc.Cancel(ctx, order.ID))

	_, err := f.svc.Receive(ctx, order.ID, []ReceiveItemInput{
		{DetailID: order.Details[0].ID, Quantity: 1},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "cancelled")
}

func TestReceive_ConflictOnConcurrentUpdate(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)})

	// the order flips to cancelled between validation and apply
	stored := f.orders.orders[order.ID]
	validated, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	stored.Status = enum.PurchaseOrderStatusCancelled

	_, err = f.orders.ApplyReceipt(context.Background(), validated.ID, []repository.ReceiptLine{
		{DetailID: validated.Details[0].ID, ProductID: f.oil.ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, repository.ErrReceiptConflict)
}

func TestReceiveAll(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t,
		OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 40, UnitCost: decimal.NewFromFloat(1.00)},
		OrderItemInput{ProductID: f.flour.ID, QuantityOrdered: 20, UnitCost: decimal.NewFromFloat(0.70)},
	)
	ctx := context.Background()

	// partially receive one line first
	_, err := f.svc.Receive(ctx, order.ID, []ReceiveItemInput{
		{DetailID: order.Details[0].ID, Quantity: 10},
	})
	require.NoError(t, err)

	full, err := f.svc.ReceiveAll(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, enum.PurchaseOrderStatusDelivered, full.Status)
	assert.Equal(t, 23+40, f.products.products[f.oil.ID].Stock)
	assert.Equal(t, 8+20, f.products.products[f.flour.ID].Stock)
}

func TestReceiveAll_NothingPending(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 5, UnitCost: decimal.NewFromFloat(1.00)})
	ctx := context.Background()

	_, err := f.svc.ReceiveAll(ctx, order.ID)
	require.NoError(t, err)

	// delivered orders cannot be received again
	_, err = f.svc.ReceiveAll(ctx, order.ID)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestCancel(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)})

	require.NoError(t, f.svc.Cancel(context.Background(), order.ID))

	reloaded, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PurchaseOrderStatusCancelled, reloaded.Status)
	// no ledger effect
	assert.Empty(t, f.ledger.movements)
}

func TestCancel_RejectedAfterReceipts(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)})
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, order.ID, []ReceiveItemInput{
		{DetailID: order.Details[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestCancel_RejectedWhenDelivered(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 5, UnitCost: decimal.NewFromFloat(1.00)})
	ctx := context.Background()

	_, err := f.svc.ReceiveAll(ctx, order.ID)
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestListOrders_StatusFilter(t *testing.T) {
	f := newOrderFixture(t)
	f.createOrder(t, OrderItemInput{ProductID: f.oil.ID, QuantityOrdered: 10, UnitCost: decimal.NewFromFloat(1.00)})
	cancelled := f.createOrder(t, OrderItemInput{ProductID: f.flour.ID, QuantityOrdered: 5, UnitCost: decimal.NewFromFloat(0.70)})
	require.NoError(t, f.svc.Cancel(context.Background(), cancelled.ID))

	status := enum.PurchaseOrderStatusPending
	result, err := f.svc.ListOrders(context.Background(), &repository.PurchaseOrderFilterParams{
		Pagination: pagination.DefaultPagination(),
		Status:     &status,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, enum.PurchaseOrderStatusPending, result.Items[0].Status)
}
