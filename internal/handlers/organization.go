// internal/handlers/organization.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

// OrganizationHandler covers branches, employees and employee types.
type OrganizationHandler struct {
	employeeService *services.EmployeeService
}

func NewOrganizationHandler(employeeService *services.EmployeeService) *OrganizationHandler {
	return &OrganizationHandler{
		employeeService: employeeService,
	}
}

// Branches

// GET /branches
func (h *OrganizationHandler) GetBranches(c *gin.Context) {
	branches, err := h.employeeService.GetBranches()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, branches)
}

// GET /branches/:id
func (h *OrganizationHandler) GetBranch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid branch ID", nil)
		return
	}

	branch, err := h.employeeService.GetBranch(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, branch)
}

// POST /branches
func (h *OrganizationHandler) CreateBranch(c *gin.Context) {
	var req services.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	branch, err := h.employeeService.CreateBranch(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, branch)
}

// PUT /branches/:id
func (h *OrganizationHandler) UpdateBranch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid branch ID", nil)
		return
	}

	var req services.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	branch, err := h.employeeService.UpdateBranch(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, branch)
}

// DELETE /branches/:id
func (h *OrganizationHandler) DeleteBranch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid branch ID", nil)
		return
	}

	if err := h.employeeService.DeleteBranch(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": "Branch deleted",
	})
}

// Employees

// GET /employees
func (h *OrganizationHandler) GetEmployees(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var branchID *uuid.UUID
	if raw := c.Query("branch_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			branchID = &id
		}
	}

	employees, total, err := h.employeeService.GetEmployees(params, branchID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.PaginatedResponse(c, employees, total, params)
}

// GET /employees/:id
func (h *OrganizationHandler) GetEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid employee ID", nil)
		return
	}

	employee, err := h.employeeService.GetEmployee(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, employee)
}

// POST /employees
func (h *OrganizationHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	employee, err := h.employeeService.CreateEmployee(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, employee)
}

// PUT /employees/:id
func (h *OrganizationHandler) UpdateEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid employee ID", nil)
		return
	}

	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	employee, err := h.employeeService.UpdateEmployee(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, employee)
}

// DELETE /employees/:id
func (h *OrganizationHandler) DeleteEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid employee ID", nil)
		return
	}

	if err := h.employeeService.DeleteEmployee(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": "Employee deleted",
	})
}

// Employee types

// GET /employee-types
func (h *OrganizationHandler) GetEmployeeTypes(c *gin.Context) {
	types, err := h.employeeService.GetEmployeeTypes()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, types)
}

// POST /employee-types
func (h *OrganizationHandler) CreateEmployeeType(c *gin.Context) {
	var req services.CreateEmployeeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	employeeType, err := h.employeeService.CreateEmployeeType(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.CreatedResponse(c, employeeType)
}

// DELETE /employee-types/:id
func (h *OrganizationHandler) DeleteEmployeeType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid employee type ID", nil)
		return
	}

	if err := h.employeeService.DeleteEmployeeType(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": "Employee type deleted",
	})
}
