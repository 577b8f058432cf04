package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/application/service"
	"github.com/puntoventa/pos-api/internal/presentation/http/dto/request"
	"github.com/puntoventa/pos-api/internal/presentation/http/dto/response"
	"github.com/puntoventa/pos-api/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles checkout. Client-supplied unit prices are ignored; the
// server captures the catalog price at commit time.
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.CartItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.CartItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	sale, err := h.saleService.Checkout(c.Request.Context(), &service.CheckoutInput{
		Items:          items,
		PaymentMethod:  req.PaymentMethod,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", sale)
}

// Get handles getting a single sale with its line items
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}
