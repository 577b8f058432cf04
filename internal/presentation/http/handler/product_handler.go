package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/application/service"
	"github.com/puntoventa/pos-api/internal/domain/repository"
	"github.com/puntoventa/pos-api/internal/presentation/http/dto/request"
	"github.com/puntoventa/pos-api/internal/presentation/http/dto/response"
	"github.com/puntoventa/pos-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests. Stock corrections and
// the movement trail are routed through the ledger service.
type ProductHandler struct {
	productService *service.ProductService
	ledgerService  *service.LedgerService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService, ledgerService *service.LedgerService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		ledgerService:  ledgerService,
	}
}

// List handles listing products with search and low-stock filtering
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:   filter.Search,
		LowStock: filter.LowStock,
	}
	params.Pagination.Validate()

	if filter.CategoryID != "" {
		if catID, err := uuid.Parse(filter.CategoryID); err == nil {
			params.CategoryID = &catID
		}
	}
	if filter.SupplierID != "" {
		if supID, err := uuid.Parse(filter.SupplierID); err == nil {
			params.SupplierID = &supID
		}
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Code:       req.Code,
		Name:       req.Name,
		Price:      req.Price,
		Stock:      req.Stock,
		MinStock:   req.MinStock,
		CategoryID: req.CategoryID,
		SupplierID: req.SupplierID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating catalog fields of a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &service.UpdateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		MinStock:   req.MinStock,
		CategoryID: req.CategoryID,
		SupplierID: req.SupplierID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles soft-deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CorrectStock handles a manual stock correction. The delta against the
// current quantity is written to the movement trail.
func (h *ProductHandler) CorrectStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.CorrectStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	movement, err := h.ledgerService.CorrectStock(c.Request.Context(), id, req.Stock, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock corrected successfully", movement)
}

// ListMovements handles listing the stock movement trail of a product
func (h *ProductHandler) ListMovements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	result, err := h.ledgerService.ListMovements(c.Request.Context(), id, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock movements retrieved successfully", result)
}
