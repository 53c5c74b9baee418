// internal/handlers/applications.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

func applicationSearchParamsFromQuery(c *gin.Context) services.ApplicationSearchParams {
	params := services.ApplicationSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if raw := c.Query("status"); raw != "" {
		status := models.ApplicationStatus(raw)
		params.Status = &status
	}
	if raw := c.Query("customer_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.CustomerID = &id
		}
	}
	if raw := c.Query("branch_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.BranchID = &id
		}
	}
	if raw := c.Query("item_category"); raw != "" {
		category := models.ItemCategory(raw)
		params.ItemCategory = &category
	}
	if raw := c.Query("date_from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			params.DateFrom = &t
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			params.DateTo = &t
		}
	}
	return params
}

// GET /applications
func (h *ApplicationHandler) GetApplications(c *gin.Context) {
	params := applicationSearchParamsFromQuery(c)

	applications, total, err := h.applicationService.GetApplications(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, applications, total, params.PaginationParams)
}

// GET /applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	application, err := h.applicationService.GetApplication(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, application)
}

// POST /applications
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req services.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	application, err := h.applicationService.CreateApplication(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, application)
}

// PUT /applications/:id
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	var req services.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	application, err := h.applicationService.UpdateApplication(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, application)
}

// POST /applications/:id/process
func (h *ApplicationHandler) ProcessApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req services.ProcessApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	application, err := h.applicationService.ProcessApplication(id, userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, application)
}

// DELETE /applications/:id
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	if err := h.applicationService.DeleteApplication(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Application deleted",
	})
}

// POST /applications/bulk-delete
func (h *ApplicationHandler) BulkDeleteApplications(c *gin.Context) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	deleted, err := h.applicationService.BulkDeleteApplications(req.IDs)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deleted": deleted,
	})
}

// POST /applications/bulk-update
func (h *ApplicationHandler) BulkUpdateApplications(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req services.BulkUpdateApplicationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	updated, err := h.applicationService.BulkUpdateApplications(userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"updated": updated,
	})
}

// GET /applications/stats
func (h *ApplicationHandler) GetApplicationStats(c *gin.Context) {
	var startDate, endDate *time.Time
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			startDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			endDate = &t
		}
	}

	stats, err := h.applicationService.GetApplicationStats(startDate, endDate)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /applications/trends
func (h *ApplicationHandler) GetApplicationTrends(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))

	trends, err := h.applicationService.GetApplicationTrends(months)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, trends)
}

// GET /applications/export
func (h *ApplicationHandler) ExportApplications(c *gin.Context) {
	params := applicationSearchParamsFromQuery(c)
	format := c.DefaultQuery("format", "csv")

	data, err := h.applicationService.ExportApplications(params, format)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if format == "json" {
		c.Header("Content-Disposition", "attachment; filename=applications.json")
		c.Data(200, "application/json", data)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=applications.csv")
	c.Data(200, "text/csv", data)
}
