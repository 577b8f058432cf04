package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture(t *testing.T) (*ProductService, *mockProductRepo, *mockSupplierRepo) {
	t.Helper()
	products := newMockProductRepo()
	suppliers := newMockSupplierRepo()
	return NewProductService(products, suppliers), products, suppliers
}

func TestCreateProduct(t *testing.T) {
	svc, products, _ := newProductFixture(t)

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Code:     "ARR001",
		Name:     "Libra de arroz",
		Price:    decimal.NewFromFloat(0.50),
		Stock:    150,
		MinStock: 50,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, 150, products.products[product.ID].Stock)
}

func TestCreateProduct_DuplicateCode(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &CreateProductInput{Code: "ARR001", Name: "Libra de arroz", Price: decimal.NewFromFloat(0.50)})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, &CreateProductInput{Code: "ARR001", Name: "Arroz integral", Price: decimal.NewFromFloat(0.80)})
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Code:  "",
		Name:  "",
		Price: decimal.NewFromFloat(-1),
		Stock: -5,
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.GreaterOrEqual(t, len(appErr.Errors), 4)
}

func TestCreateProduct_UnknownSupplier(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	supplierID := uuid.New()

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Code: "ACE004", Name: "Aceite vegetal", Price: decimal.NewFromFloat(1.25), SupplierID: &supplierID,
	})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestUpdateProduct_NeverTouchesStock(t *testing.T) {
	svc, products, _ := newProductFixture(t)
	product := products.add(&entity.Product{Code: "ARR001", Name: "Libra de arroz", Price: decimal.NewFromFloat(0.50), Stock: 150, MinStock: 50})

	name := "Libra de arroz premium"
	price := decimal.NewFromFloat(0.65)
	updated, err := svc.UpdateProduct(context.Background(), product.ID, &UpdateProductInput{
		Name:  &name,
		Price: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, "Libra de arroz premium", updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, 150, updated.Stock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	name := "x"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), &UpdateProductInput{Name: &name})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestDeleteProduct(t *testing.T) {
	svc, products, _ := newProductFixture(t)
	product := products.add(&entity.Product{Code: "SAL005", Name: "Sal refinada", Price: decimal.NewFromFloat(0.35)})

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))

	err := svc.DeleteProduct(context.Background(), product.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
