// internal/services/card_payment_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/config"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

// CardPaymentService handles card payments taken at the counter through
// Stripe. Cash payments never touch this service.
type CardPaymentService struct {
	db     *gorm.DB
	config *config.Config
	loans  *LoanService
}

type CreateCardIntentRequest struct {
	Amount   float64           `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency,omitempty"`
	LoanID   *uuid.UUID        `json:"loan_id,omitempty"`
	ItemID   *uuid.UUID        `json:"item_id,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type CardIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	IntentID     string `json:"intent_id"`
	Status       string `json:"status"`
}

type ConfirmCardPaymentRequest struct {
	IntentID string     `json:"intent_id" validate:"required"`
	LoanID   *uuid.UUID `json:"loan_id,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

type CardRefundRequest struct {
	IntentID string  `json:"intent_id" validate:"required"`
	Amount   float64 `json:"amount,omitempty"`
	Reason   string  `json:"reason" validate:"required"`
}

func NewCardPaymentService(db *gorm.DB, cfg *config.Config, loans *LoanService) *CardPaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &CardPaymentService{
		db:     db,
		config: cfg,
		loans:  loans,
	}
}

// CreateIntent opens a Stripe PaymentIntent for a counter card payment.
// Amounts are converted to the smallest currency unit for Stripe.
func (s *CardPaymentService) CreateIntent(userID uuid.UUID, req *CreateCardIntentRequest) (*CardIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid card payment request: %v", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = s.config.Payment.Currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount * 100)),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("processed_by", userID.String())
	if req.LoanID != nil {
		params.AddMetadata("loan_id", req.LoanID.String())
	}
	if req.ItemID != nil {
		params.AddMetadata("item_id", req.ItemID.String())
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &CardIntentResponse{
		ClientSecret: pi.ClientSecret,
		IntentID:     pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment checks the intent status with Stripe and, once it has
// succeeded, records the amount as a loan payment with the intent ID as the
// payment reference.
func (s *CardPaymentService) ConfirmPayment(req *ConfirmCardPaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid confirmation request: %v", err)
	}

	pi, err := paymentintent.Get(req.IntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, apperrors.InvalidStatef("payment intent is not settled, current status: %s", pi.Status)
	}

	if req.LoanID == nil {
		return nil, apperrors.Validationf("loan_id is required to apply a card payment")
	}

	return s.loans.AddPayment(*req.LoanID, &CreatePaymentRequest{
		Amount:          float64(pi.Amount) / 100,
		PaymentDate:     time.Now(),
		PaymentMethod:   models.PaymentMethodCreditCard,
		ReferenceNumber: pi.ID,
		Notes:           req.Notes,
	})
}

// Refund reverses a card payment through Stripe. The loan ledger is not
// touched here; staff correct the payment record separately.
func (s *CardPaymentService) Refund(req *CardRefundRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.Validationf("invalid refund request: %v", err)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.IntentID),
		Reason:        stripe.String("requested_by_customer"),
	}
	if req.Amount > 0 {
		params.Amount = stripe.Int64(int64(req.Amount * 100))
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}
	return nil
}
