// internal/handlers/inventory.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	storageService   *services.StorageService
}

func NewInventoryHandler(inventoryService *services.InventoryService, storageService *services.StorageService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		storageService:   storageService,
	}
}

// GET /inventory
func (h *InventoryHandler) GetItems(c *gin.Context) {
	params := services.ItemSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if raw := c.Query("category"); raw != "" {
		category := models.ItemCategory(raw)
		params.Category = &category
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ItemStatus(raw)
		params.Status = &status
	}
	if raw := c.Query("branch_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.BranchID = &id
		}
	}
	if raw := c.Query("min_value"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinValue = &v
		}
	}
	if raw := c.Query("max_value"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MaxValue = &v
		}
	}

	items, total, err := h.inventoryService.GetItems(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, items, total, params.PaginationParams)
}

// GET /inventory/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	item, err := h.inventoryService.GetItem(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, item)
}

// POST /inventory
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req services.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	item, err := h.inventoryService.CreateItem(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, item)
}

// PUT /inventory/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req services.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	item, err := h.inventoryService.UpdateItem(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, item)
}

// DELETE /inventory/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	if err := h.inventoryService.DeleteItem(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Item deleted",
	})
}

// POST /inventory/:id/mark-for-sale
func (h *InventoryHandler) MarkForSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req struct {
		SalePrice float64 `json:"sale_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	item, err := h.inventoryService.MarkForSale(id, req.SalePrice)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, item)
}

// POST /inventory/:id/sell
func (h *InventoryHandler) SellItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req services.SellItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	item, err := h.inventoryService.SellItem(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, item)
}

// POST /inventory/:id/images
func (h *InventoryHandler) UploadItemImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", err.Error())
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	options := h.storageService.GetDefaultUploadOptions("item_images")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	item, err := h.inventoryService.AppendItemImage(id, result.URL)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"upload": result,
		"item":   item,
	})
}

// GET /inventory/stats
func (h *InventoryHandler) GetInventoryStats(c *gin.Context) {
	var branchID *uuid.UUID
	if raw := c.Query("branch_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			branchID = &id
		}
	}

	stats, err := h.inventoryService.GetInventoryStats(branchID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
