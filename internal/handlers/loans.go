// internal/handlers/loans.go
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

type LoanHandler struct {
	loanService    *services.LoanService
	paymentService *services.PaymentService
}

func NewLoanHandler(loanService *services.LoanService, paymentService *services.PaymentService) *LoanHandler {
	return &LoanHandler{
		loanService:    loanService,
		paymentService: paymentService,
	}
}

func loanSearchParamsFromQuery(c *gin.Context) services.LoanSearchParams {
	params := services.LoanSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if raw := c.Query("status"); raw != "" {
		status := models.LoanStatus(raw)
		params.Status = &status
	}
	if raw := c.Query("customer_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.CustomerID = &id
		}
	}
	if raw := c.Query("item_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.ItemID = &id
		}
	}
	if raw := c.Query("is_overdue"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			params.IsOverdue = &v
		}
	}
	if raw := c.Query("min_amount"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinAmount = &v
		}
	}
	if raw := c.Query("max_amount"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MaxAmount = &v
		}
	}
	if raw := c.Query("due_date_from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			params.DueDateFrom = &t
		}
	}
	if raw := c.Query("due_date_to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			params.DueDateTo = &t
		}
	}
	return params
}

// GET /loans
func (h *LoanHandler) GetLoans(c *gin.Context) {
	params := loanSearchParamsFromQuery(c)

	loans, total, err := h.loanService.GetLoans(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, loans, total, params.PaginationParams)
}

// POST /loans/search
func (h *LoanHandler) SearchLoans(c *gin.Context) {
	var params services.LoanSearchParams
	if err := c.ShouldBindJSON(&params); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 100
	}

	loans, total, err := h.loanService.GetLoans(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, loans, total, params.PaginationParams)
}

// GET /loans/:id
func (h *LoanHandler) GetLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}

	loan, err := h.loanService.GetLoan(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, loan)
}

// POST /loans
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req services.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	loan, err := h.loanService.CreateLoan(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, loan)
}

// PUT /loans/:id
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}

	var req services.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	loan, err := h.loanService.UpdateLoan(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, loan)
}

// GET /loans/:id/payments
func (h *LoanHandler) GetLoanPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}

	params := services.PaymentSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		LoanID:           &id,
	}
	payments, total, err := h.paymentService.GetPayments(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, payments, total, params.PaginationParams)
}

// POST /loans/:id/payments
func (h *LoanHandler) AddPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}

	var req services.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if req.PaymentDate.IsZero() {
		req.PaymentDate = time.Now()
	}

	payment, err := h.loanService.AddPayment(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, payment)
}

// POST /loans/:id/extend
func (h *LoanHandler) ExtendLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}

	var req services.ExtendLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if req.Payment != nil && req.Payment.PaymentDate.IsZero() {
		req.Payment.PaymentDate = time.Now()
	}

	loan, err := h.loanService.ExtendLoan(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, loan)
}

// POST /loans/:id/redeem
func (h *LoanHandler) RedeemLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}

	var req services.RedeemLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if req.Payment.PaymentDate.IsZero() {
		req.Payment.PaymentDate = time.Now()
	}

	loan, err := h.loanService.RedeemLoan(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, loan)
}

// POST /loans/:id/default
func (h *LoanHandler) DefaultLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}

	var req services.DefaultLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	loan, err := h.loanService.DefaultLoan(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, loan)
}

// GET /loans/stats/overview
func (h *LoanHandler) GetLoanStats(c *gin.Context) {
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

	stats, err := h.loanService.GetLoanStats(startDate, endDate)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
