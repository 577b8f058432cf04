package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/application/service"
	"github.com/puntoventa/pos-api/internal/presentation/http/dto/response"
)

// InventoryHandler handles inventory monitoring HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// LowStock handles the reorder report
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", items)
}

// Restock handles creating a quick restock order for a product
func (h *InventoryHandler) Restock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "0"))
	if err != nil {
		response.BadRequest(c, "Invalid quantity")
		return
	}

	order, err := h.inventoryService.Restock(c.Request.Context(), productID, quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Restock order created successfully", order)
}
