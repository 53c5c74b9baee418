// internal/handlers/transactions.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// GET /transactions
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	params := services.TransactionSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if raw := c.Query("transaction_type"); raw != "" {
		t := models.TransactionType(raw)
		params.TransactionType = &t
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TransactionStatus(raw)
		params.Status = &status
	}
	if raw := c.Query("branch_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.BranchID = &id
		}
	}
	if raw := c.Query("customer_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.CustomerID = &id
		}
	}
	if raw := c.Query("loan_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.LoanID = &id
		}
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

	transactions, total, err := h.transactionService.GetTransactions(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, transactions, total, params.PaginationParams)
}

// GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	transaction, err := h.transactionService.GetTransaction(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, transaction)
}

// POST /transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, transaction)
}

// PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	var req services.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, transaction)
}

// DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Transaction deleted",
	})
}
