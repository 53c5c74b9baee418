// internal/services/payment_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

// PaymentService manages the payment ledger. Payments on settled loans are
// frozen: once a loan completes or defaults its history may not be rewritten.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

type UpdatePaymentRequest struct {
	Amount          *float64              `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaymentDate     *time.Time            `json:"payment_date,omitempty"`
	PaymentMethod   *models.PaymentMethod `json:"payment_method,omitempty"`
	ReferenceNumber *string               `json:"reference_number,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
}

type PaymentSearchParams struct {
	utils.PaginationParams
	LoanID        *uuid.UUID            `json:"loan_id,omitempty"`
	PaymentMethod *models.PaymentMethod `json:"payment_method,omitempty"`
	DateFrom      *time.Time            `json:"date_from,omitempty"`
	DateTo        *time.Time            `json:"date_to,omitempty"`
}

func (s *PaymentService) GetPayments(params PaymentSearchParams) ([]models.Payment, int64, error) {
	query := s.db.Model(&models.Payment{})

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(payment_number) LIKE ? OR LOWER(reference_number) LIKE ?", term, term)
	}
	if params.LoanID != nil {
		query = query.Where("loan_id = ?", *params.LoanID)
	}
	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}
	if params.DateFrom != nil {
		query = query.Where("payment_date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("payment_date <= ?", *params.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	allowedSortFields := []string{"payment_date", "amount", "created_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var payments []models.Payment
	if err := query.Preload("Loan").Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}

func (s *PaymentService) GetPayment(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Preload("Loan").Where("id = ?", id).First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Payment")
		}
		return nil, err
	}
	return &payment, nil
}

// UpdatePayment corrects a payment record and recomputes the loan's running
// total. Refused when the loan is already settled.
func (s *PaymentService) UpdatePayment(id uuid.UUID, req *UpdatePaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid payment update: %v", err)
	}

	var updated *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("id = ?", id).First(&payment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Payment")
			}
			return err
		}

		loan, err := lockLoan(tx, payment.LoanID)
		if err != nil {
			return err
		}
		if loan.Status == models.LoanStatusCompleted || loan.Status == models.LoanStatusDefaulted {
			return apperrors.Conflictf("cannot modify payments on a loan with status: %s", loan.Status)
		}

		if req.Amount != nil {
			payment.Amount = *req.Amount
		}
		if req.PaymentDate != nil {
			payment.PaymentDate = *req.PaymentDate
		}
		if req.PaymentMethod != nil {
			payment.PaymentMethod = *req.PaymentMethod
		}
		if req.ReferenceNumber != nil {
			payment.ReferenceNumber = *req.ReferenceNumber
		}
		if req.Notes != nil {
			payment.Notes = *req.Notes
		}

		if err := tx.Save(&payment).Error; err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		totalPaid, err := sumPayments(tx, loan.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(loan).Update("total_paid", totalPaid).Error; err != nil {
			return err
		}

		updated = &payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePayment removes a payment record and recomputes the loan's running
// total. Refused when the loan is already settled.
func (s *PaymentService) DeletePayment(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("id = ?", id).First(&payment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Payment")
			}
			return err
		}

		loan, err := lockLoan(tx, payment.LoanID)
		if err != nil {
			return err
		}
		if loan.Status == models.LoanStatusCompleted || loan.Status == models.LoanStatusDefaulted {
			return apperrors.Conflictf("cannot delete payments on a loan with status: %s", loan.Status)
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}

		totalPaid, err := sumPayments(tx, loan.ID)
		if err != nil {
			return err
		}
		return tx.Model(loan).Update("total_paid", totalPaid).Error
	})
}
