package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/puntoventa/pos-api/pkg/apperror"
	"github.com/puntoventa/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture(t *testing.T, stock int) (*LedgerService, *mockProductRepo, *entity.Product) {
	t.Helper()
	products := newMockProductRepo()
	product := products.add(&entity.Product{
		Code:     "ARR001",
		Name:     "Libra de arroz",
		Price:    decimal.NewFromFloat(0.50),
		Stock:    stock,
		MinStock: 50,
	})
	ledger := newMockLedgerRepo(products)
	return NewLedgerService(ledger, products), products, product
}

func TestAdjust_DebitRecordsMovement(t *testing.T) {
	svc, products, product := newLedgerFixture(t, 100)

	movement, err := svc.Adjust(context.Background(), product.ID, -30, enum.LedgerReasonSaleDebit, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 100, movement.PreviousStock)
	assert.Equal(t, 70, movement.NewStock)
	assert.Equal(t, -30, movement.Quantity)
	assert.Equal(t, enum.MovementTypeSale, movement.MovementType)
	assert.Equal(t, 70, products.products[product.ID].Stock)
}

func TestAdjust_InsufficientStock(t *testing.T) {
	svc, products, product := newLedgerFixture(t, 10)

	_, err := svc.Adjust(context.Background(), product.ID, -11, enum.LedgerReasonSaleDebit, nil, nil)
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "Libra de arroz")
	// nothing debited
	assert.Equal(t, 10, products.products[product.ID].Stock)
}

func TestAdjust_DebitToExactlyZero(t *testing.T) {
	svc, products, product := newLedgerFixture(t, 10)

	movement, err := svc.Adjust(context.Background(), product.ID, -10, enum.LedgerReasonSaleDebit, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, movement.NewStock)
	assert.Equal(t, 0, products.products[product.ID].Stock)
}

func TestAdjust_SignRules(t *testing.T) {
	svc, _, product := newLedgerFixture(t, 100)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, product.ID, 5, enum.LedgerReasonSaleDebit, nil, nil)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = svc.Adjust(ctx, product.ID, -5, enum.LedgerReasonReceiptCredit, nil, nil)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = svc.Adjust(ctx, product.ID, 0, enum.LedgerReasonManualCorrection, nil, nil)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = svc.Adjust(ctx, product.ID, 5, enum.LedgerReason("shrinkage"), nil, nil)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestAdjust_ManualCorrectionBothDirections(t *testing.T) {
	svc, _, product := newLedgerFixture(t, 50)
	ctx := context.Background()

	up, err := svc.Adjust(ctx, product.ID, 5, enum.LedgerReasonManualCorrection, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, enum.MovementTypeAdjustment, up.MovementType)

	down, err := svc.Adjust(ctx, product.ID, -5, enum.LedgerReasonManualCorrection, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, down.NewStock)
}

func TestAdjust_ProductNotFound(t *testing.T) {
	svc, _, _ := newLedgerFixture(t, 10)

	_, err := svc.Adjust(context.Background(), uuid.New(), -1, enum.LedgerReasonSaleDebit, nil, nil)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCorrectStock(t *testing.T) {
	svc, products, product := newLedgerFixture(t, 45)

	movement, err := svc.CorrectStock(context.Background(), product.ID, 50, nil)
	require.NoError(t, err)

	assert.Equal(t, 45, movement.PreviousStock)
	assert.Equal(t, 50, movement.NewStock)
	assert.Equal(t, 50, products.products[product.ID].Stock)
}

func TestCorrectStock_NegativeTarget(t *testing.T) {
	svc, _, product := newLedgerFixture(t, 45)

	_, err := svc.CorrectStock(context.Background(), product.ID, -1, nil)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "stock", appErr.Errors[0].Field)
}

func TestListMovements_FoldReconstructsStock(t *testing.T) {
	svc, products, product := newLedgerFixture(t, 100)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, product.ID, -20, enum.LedgerReasonSaleDebit, nil, nil)
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, product.ID, 50, enum.LedgerReasonReceiptCredit, nil, nil)
	require.NoError(t, err)
	_, err = svc.CorrectStock(ctx, product.ID, 120, nil)
	require.NoError(t, err)

	result, err := svc.ListMovements(ctx, product.ID, pagination.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	// folding the quantities from the baseline yields the current stock
	stock := 100
	for _, mv := range result.Items {
		assert.Equal(t, stock, mv.PreviousStock)
		stock += mv.Quantity
		assert.Equal(t, stock, mv.NewStock)
	}
	assert.Equal(t, products.products[product.ID].Stock, stock)
}
