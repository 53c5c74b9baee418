// internal/handlers/payments.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService     *services.PaymentService
	cardPaymentService *services.CardPaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService, cardPaymentService *services.CardPaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:     paymentService,
		cardPaymentService: cardPaymentService,
	}
}

// GET /payments
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	params := services.PaymentSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if raw := c.Query("loan_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.LoanID = &id
		}
	}
	if raw := c.Query("payment_method"); raw != "" {
		method := models.PaymentMethod(raw)
		params.PaymentMethod = &method
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

	payments, total, err := h.paymentService.GetPayments(params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, payments, total, params.PaginationParams)
}

// GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid payment ID", nil)
		return
	}

	payment, err := h.paymentService.GetPayment(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, payment)
}

// PUT /payments/:id
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid payment ID", nil)
		return
	}

	var req services.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	payment, err := h.paymentService.UpdatePayment(id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, payment)
}

// DELETE /payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid payment ID", nil)
		return
	}

	if err := h.paymentService.DeletePayment(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Payment deleted",
	})
}

// POST /payments/card-intent
func (h *PaymentHandler) CreateCardIntent(c *gin.Context) {
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

	var req services.CreateCardIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	intent, err := h.cardPaymentService.CreateIntent(userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, intent)
}

// POST /payments/card-confirm
func (h *PaymentHandler) ConfirmCardPayment(c *gin.Context) {
	var req services.ConfirmCardPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	payment, err := h.cardPaymentService.ConfirmPayment(&req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, payment)
}

// POST /payments/card-refund
func (h *PaymentHandler) RefundCardPayment(c *gin.Context) {
	var req services.CardRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if err := h.cardPaymentService.Refund(&req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Refund processed",
	})
}
