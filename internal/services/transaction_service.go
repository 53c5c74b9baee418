// internal/services/transaction_service.go
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

type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

type CreateTransactionRequest struct {
	BranchID        uuid.UUID                `json:"branch_id" validate:"required"`
	CustomerID      *uuid.UUID               `json:"customer_id,omitempty"`
	ProcessedByID   *uuid.UUID               `json:"processed_by_id,omitempty"`
	LoanID          *uuid.UUID               `json:"loan_id,omitempty"`
	ItemID          *uuid.UUID               `json:"item_id,omitempty"`
	PaymentID       *uuid.UUID               `json:"payment_id,omitempty"`
	TransactionType models.TransactionType   `json:"transaction_type" validate:"required"`
	Status          models.TransactionStatus `json:"status,omitempty"`
	Amount          float64                  `json:"amount" validate:"required"`
	TransactionDate *time.Time               `json:"transaction_date,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
}

type UpdateTransactionRequest struct {
	Status          *models.TransactionStatus `json:"status,omitempty"`
	Amount          *float64                  `json:"amount,omitempty"`
	TransactionDate *time.Time                `json:"transaction_date,omitempty"`
	Notes           *string                   `json:"notes,omitempty"`
}

type TransactionSearchParams struct {
	utils.PaginationParams
	TransactionType *models.TransactionType   `json:"transaction_type,omitempty"`
	Status          *models.TransactionStatus `json:"status,omitempty"`
	BranchID        *uuid.UUID                `json:"branch_id,omitempty"`
	CustomerID      *uuid.UUID                `json:"customer_id,omitempty"`
	LoanID          *uuid.UUID                `json:"loan_id,omitempty"`
	DateFrom        *time.Time                `json:"date_from,omitempty"`
	DateTo          *time.Time                `json:"date_to,omitempty"`
}

func (s *TransactionService) GetTransactions(params TransactionSearchParams) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{})

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(transaction_number) LIKE ? OR LOWER(notes) LIKE ?", term, term)
	}
	if params.TransactionType != nil {
		query = query.Where("transaction_type = ?", *params.TransactionType)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.LoanID != nil {
		query = query.Where("loan_id = ?", *params.LoanID)
	}
	if params.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("transaction_date <= ?", *params.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"transaction_date", "amount", "created_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var transactions []models.Transaction
	if err := query.Preload("Branch").Preload("Customer").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

func (s *TransactionService) GetTransaction(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Preload("Branch").Preload("Customer").Preload("ProcessedBy").Preload("Payment").
		Where("id = ?", id).First(&transaction).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Transaction")
		}
		return nil, err
	}
	return &transaction, nil
}

func (s *TransactionService) CreateTransaction(req *CreateTransactionRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid transaction: %v", err)
	}

	status := req.Status
	if status == "" {
		status = models.TransactionStatusCompleted
	}
	transactionDate := time.Now()
	if req.TransactionDate != nil {
		transactionDate = *req.TransactionDate
	}

	transaction := &models.Transaction{
		TransactionNumber: utils.GenerateTransactionNumber(),
		BranchID:          req.BranchID,
		CustomerID:        req.CustomerID,
		ProcessedByID:     req.ProcessedByID,
		LoanID:            req.LoanID,
		ItemID:            req.ItemID,
		PaymentID:         req.PaymentID,
		TransactionType:   req.TransactionType,
		Status:            status,
		Amount:            req.Amount,
		TransactionDate:   transactionDate,
		Notes:             req.Notes,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return transaction, nil
}

// UpdateTransaction edits a pending transaction. Completed and cancelled
// transactions are part of the ledger and stay as written.
func (s *TransactionService) UpdateTransaction(id uuid.UUID, req *UpdateTransactionRequest) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Transaction")
		}
		return nil, err
	}

	if !transaction.Editable() {
		return nil, apperrors.InvalidStatef("cannot update transaction with status: %s", transaction.Status)
	}

	if req.Status != nil {
		transaction.Status = *req.Status
	}
	if req.Amount != nil {
		transaction.Amount = *req.Amount
	}
	if req.TransactionDate != nil {
		transaction.TransactionDate = *req.TransactionDate
	}
	if req.Notes != nil {
		transaction.Notes = *req.Notes
	}

	if err := s.db.Save(&transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a pending transaction.
func (s *TransactionService) DeleteTransaction(id uuid.UUID) error {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Transaction")
		}
		return err
	}

	if !transaction.Editable() {
		return apperrors.InvalidStatef("cannot delete transaction with status: %s", transaction.Status)
	}

	return s.db.Delete(&transaction).Error
}
