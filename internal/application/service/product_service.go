package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/entity"
	"github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/pkg/apperror"
	"github.com/puntoventa/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog operations. Stock is set only at creation;
// afterwards it moves exclusively through the ledger.
type ProductService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code       string
	Name       string
	Price      decimal.Decimal
	Stock      int
	MinStock   int
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
}

// UpdateProductInput represents the update product input. Stock is absent on
// purpose; stock corrections go through the ledger endpoint.
type UpdateProductInput struct {
	Name       *string
	Price      *decimal.Decimal
	MinStock   *int
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
}

// CreateProduct creates a new product with its opening stock
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if fieldErrors := validateProductFields(input.Code, input.Name, input.Price, input.Stock, input.MinStock); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.productRepo.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this code already exists")
	}

	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
	}

	product := &entity.Product{
		Code:       input.Code,
		Name:       input.Name,
		Price:      input.Price,
		Stock:      input.Stock,
		MinStock:   input.MinStock,
		CategoryID: input.CategoryID,
		SupplierID: input.SupplierID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct updates catalog fields on a product. Stock and code are never
// touched here.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "name", Message: "name cannot be empty"},
			})
		}
		product.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "price", Message: "price cannot be negative"},
			})
		}
		product.Price = *input.Price
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "min_stock", Message: "minimum stock cannot be negative"},
			})
		}
		product.MinStock = *input.MinStock
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
		product.SupplierID = input.SupplierID
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

// DeleteProduct soft-deletes a product. Its movement history is preserved.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

func validateProductFields(code, name string, price decimal.Decimal, stock, minStock int) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if code == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: "code is required"})
	}
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "price cannot be negative"})
	}
	if stock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "stock cannot be negative"})
	}
	if minStock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "min_stock", Message: "minimum stock cannot be negative"})
	}
	return fieldErrors
}
