package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel_backend/internal/middleware"
	"hotel_backend/internal/models"
	"hotel_backend/internal/service"
)

// InventoryHandler 處理庫存相關的請求
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventoryService.List(c.Request.Context(), middleware.CurrentRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var input service.CreateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	item, err := h.inventoryService.Create(c.Request.Context(), middleware.CurrentRole(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update 部分更新，未帶的欄位不變
func (h *InventoryHandler) Update(c *gin.Context) {
	var input models.InventoryUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.inventoryService.Delete(c.Request.Context(), middleware.CurrentRole(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TotalValue 庫存總價值報表
func (h *InventoryHandler) TotalValue(c *gin.Context) {
	value, err := h.inventoryService.TotalValue(c.Request.Context(), middleware.CurrentRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}
