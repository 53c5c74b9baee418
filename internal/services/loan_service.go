// internal/services/loan_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type LoanService struct {
	db *gorm.DB
}

func NewLoanService(db *gorm.DB) *LoanService {
	return &LoanService{db: db}
}

// LoanDetails is the derived financial state of a loan at a point in time.
type LoanDetails struct {
	TotalPaid        float64 `json:"total_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
	IsOverdue        bool    `json:"is_overdue"`
	DaysRemaining    int     `json:"days_remaining"`
	DaysOverdue      int     `json:"days_overdue"`
}

// ComputeLoanDetails derives the financial state of a loan from its payments.
// Interest is a flat single-period amount (principal * rate / 100), not
// compounded and not prorated by the elapsed term. The remaining balance is
// not floored; callers treat a value <= 0 as paid off.
//
// Pure function: callable for any loan regardless of status.
func ComputeLoanDetails(loan *models.Loan, payments []models.Payment, today time.Time) LoanDetails {
	var totalPaid float64
	for _, p := range payments {
		totalPaid += p.Amount
	}

	interestAmount := loan.LoanAmount * (loan.InterestRate / 100)
	remainingBalance := loan.LoanAmount + interestAmount - totalPaid

	details := LoanDetails{
		TotalPaid:        totalPaid,
		RemainingBalance: remainingBalance,
	}

	day := 24 * time.Hour
	due := loan.DueDate.Truncate(day)
	now := today.Truncate(day)
	if now.After(due) {
		details.DaysOverdue = int(now.Sub(due) / day)
		details.IsOverdue = true
	} else {
		details.DaysRemaining = int(due.Sub(now) / day)
	}

	return details
}

// Requests

type CreatePaymentRequest struct {
	Amount          float64              `json:"amount" validate:"required,gt=0"`
	PaymentDate     time.Time            `json:"payment_date" validate:"required"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required"`
	ReferenceNumber string               `json:"reference_number,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}

type CreateLoanRequest struct {
	CustomerID     uuid.UUID             `json:"customer_id" validate:"required"`
	ItemID         uuid.UUID             `json:"item_id" validate:"required"`
	LoanAmount     float64               `json:"loan_amount" validate:"required,gt=0"`
	InterestRate   float64               `json:"interest_rate" validate:"required,gt=0"`
	TermDays       int                   `json:"term_days" validate:"required,gt=0"`
	StartDate      time.Time             `json:"start_date" validate:"required"`
	DueDate        time.Time             `json:"due_date" validate:"required"`
	Status         models.LoanStatus     `json:"status,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	InitialPayment *CreatePaymentRequest `json:"initial_payment,omitempty"`
}

type UpdateLoanRequest struct {
	LoanAmount   *float64           `json:"loan_amount,omitempty"`
	InterestRate *float64           `json:"interest_rate,omitempty"`
	TermDays     *int               `json:"term_days,omitempty"`
	StartDate    *time.Time         `json:"start_date,omitempty"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	Status       *models.LoanStatus `json:"status,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
}

type ExtendLoanRequest struct {
	AdditionalDays int                   `json:"additional_days" validate:"required,gt=0"`
	Payment        *CreatePaymentRequest `json:"payment,omitempty"`
	Notes          string                `json:"notes,omitempty"`
}

type RedeemLoanRequest struct {
	Payment CreatePaymentRequest `json:"payment" validate:"required"`
	Notes   string               `json:"notes,omitempty"`
}

type DefaultLoanRequest struct {
	DefaultDate time.Time `json:"default_date"`
	Reason      string    `json:"reason,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type LoanSearchParams struct {
	utils.PaginationParams
	Status        *models.LoanStatus `json:"status,omitempty"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	ItemID        *uuid.UUID         `json:"item_id,omitempty"`
	IsOverdue     *bool              `json:"is_overdue,omitempty"`
	MinAmount     *float64           `json:"min_amount,omitempty"`
	MaxAmount     *float64           `json:"max_amount,omitempty"`
	StartDateFrom *time.Time         `json:"start_date_from,omitempty"`
	StartDateTo   *time.Time         `json:"start_date_to,omitempty"`
	DueDateFrom   *time.Time         `json:"due_date_from,omitempty"`
	DueDateTo     *time.Time         `json:"due_date_to,omitempty"`
}

type LoanStats struct {
	TotalLoans          int64                     `json:"total_loans"`
	ActiveLoans         int64                     `json:"active_loans"`
	CompletedLoans      int64                     `json:"completed_loans"`
	DefaultedLoans      int64                     `json:"defaulted_loans"`
	OverdueLoans        int64                     `json:"overdue_loans"`
	TotalLoanAmount     float64                   `json:"total_loan_amount"`
	TotalInterestEarned float64                   `json:"total_interest_earned"`
	AvgLoanAmount       float64                   `json:"avg_loan_amount"`
	AvgLoanTerm         float64                   `json:"avg_loan_term"`
	LoansByStatus       map[models.LoanStatus]int64 `json:"loans_by_status"`
	LoansByMonth        []MonthlyLoanStats        `json:"loans_by_month"`
}

type MonthlyLoanStats struct {
	Month  string  `json:"month"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// attachDetails loads the loan's payments and fills the computed fields.
func (s *LoanService) attachDetails(db *gorm.DB, loan *models.Loan) error {
	var payments []models.Payment
	if err := db.Where("loan_id = ?", loan.ID).Find(&payments).Error; err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}

	details := ComputeLoanDetails(loan, payments, time.Now())
	loan.TotalPaid = details.TotalPaid
	loan.RemainingBalance = details.RemainingBalance
	loan.IsOverdue = details.IsOverdue
	loan.DaysRemaining = details.DaysRemaining
	loan.DaysOverdue = details.DaysOverdue
	return nil
}

// lockLoan fetches the loan row with a row-level lock so concurrent lifecycle
// operations on the same loan serialize their balance recomputation.
func lockLoan(tx *gorm.DB, loanID uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", loanID).First(&loan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Loan")
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	return &loan, nil
}

func sumPayments(tx *gorm.DB, loanID uuid.UUID) (float64, error) {
	var total float64
	err := tx.Model(&models.Payment{}).
		Where("loan_id = ?", loanID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func insertPayment(tx *gorm.DB, loanID uuid.UUID, req *CreatePaymentRequest) (*models.Payment, error) {
	payment := &models.Payment{
		PaymentNumber:   utils.GeneratePaymentNumber(),
		LoanID:          loanID,
		Amount:          req.Amount,
		PaymentDate:     req.PaymentDate,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}
	if err := tx.Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return payment, nil
}

// GetLoans lists loans with optional filtering, newest first.
func (s *LoanService) GetLoans(params LoanSearchParams) ([]models.Loan, int64, error) {
	query := s.db.Model(&models.Loan{})
	query = applyLoanFilters(query, params)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	var loans []models.Loan
	err := utils.ApplyPagination(query.Order("created_at DESC"), params.PaginationParams).
		Find(&loans).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}

	for i := range loans {
		if err := s.attachDetails(s.db, &loans[i]); err != nil {
			return nil, 0, err
		}
	}
	return loans, total, nil
}

func applyLoanFilters(query *gorm.DB, params LoanSearchParams) *gorm.DB {
	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(loan_code) LIKE ? OR LOWER(notes) LIKE ?", term, term)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.ItemID != nil {
		query = query.Where("item_id = ?", *params.ItemID)
	}
	if params.MinAmount != nil {
		query = query.Where("loan_amount >= ?", *params.MinAmount)
	}
	if params.MaxAmount != nil {
		query = query.Where("loan_amount <= ?", *params.MaxAmount)
	}
	if params.StartDateFrom != nil {
		query = query.Where("start_date >= ?", *params.StartDateFrom)
	}
	if params.StartDateTo != nil {
		query = query.Where("start_date <= ?", *params.StartDateTo)
	}
	if params.DueDateFrom != nil {
		query = query.Where("due_date >= ?", *params.DueDateFrom)
	}
	if params.DueDateTo != nil {
		query = query.Where("due_date <= ?", *params.DueDateTo)
	}
	if params.IsOverdue != nil {
		today := time.Now()
		inProgress := []models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}
		if *params.IsOverdue {
			query = query.Where("due_date < ? AND status IN ?", today, inProgress)
		} else {
			query = query.Where("due_date >= ? OR status NOT IN ?", today, inProgress)
		}
	}
	return query
}

// GetLoan returns a single loan with customer, item and payment details.
func (s *LoanService) GetLoan(id uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	err := s.db.Preload("Customer").Preload("Item").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC")
		}).
		Where("id = ?", id).First(&loan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Loan")
		}
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}

	if err := s.attachDetails(s.db, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// CreateLoan originates a new loan against an available collateral item,
// flips the item to pawned, and optionally records an initial payment, all in
// one transaction.
func (s *LoanService) CreateLoan(req *CreateLoanRequest) (*models.Loan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid loan request: %v", err)
	}

	status := req.Status
	if status == "" {
		status = models.LoanStatusPending
	}

	var created *models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("id = ?", req.CustomerID).First(&customer).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Customer")
			}
			return err
		}

		var item models.Item
		if err := tx.Where("id = ?", req.ItemID).First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Item")
			}
			return err
		}

		if !item.AvailableForLoan() {
			return apperrors.InvalidStatef("item is not available for loan, current status: %s", item.Status)
		}

		loan := &models.Loan{
			LoanCode:     utils.GenerateLoanCode(),
			CustomerID:   req.CustomerID,
			ItemID:       req.ItemID,
			LoanAmount:   req.LoanAmount,
			InterestRate: req.InterestRate,
			TermDays:     req.TermDays,
			StartDate:    req.StartDate,
			DueDate:      req.DueDate,
			Status:       status,
			Notes:        req.Notes,
		}
		if err := tx.Create(loan).Error; err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}

		// Item becomes collateral the moment the loan exists.
		if err := tx.Model(&item).Update("status", models.ItemStatusPawned).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}

		if req.InitialPayment != nil {
			if _, err := insertPayment(tx, loan.ID, req.InitialPayment); err != nil {
				return err
			}
			loan.TotalPaid = req.InitialPayment.Amount
			if err := tx.Model(loan).Update("total_paid", loan.TotalPaid).Error; err != nil {
				return err
			}
		}

		created = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.attachDetails(s.db, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateLoan applies a partial update. Loans in a terminal settled state are
// read-only.
func (s *LoanService) UpdateLoan(id uuid.UUID, req *UpdateLoanRequest) (*models.Loan, error) {
	var updated *models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, id)
		if err != nil {
			return err
		}

		if loan.Status == models.LoanStatusCompleted || loan.Status == models.LoanStatusDefaulted {
			return apperrors.InvalidStatef("cannot update loan with status: %s", loan.Status)
		}

		if req.LoanAmount != nil {
			loan.LoanAmount = *req.LoanAmount
		}
		if req.InterestRate != nil {
			loan.InterestRate = *req.InterestRate
		}
		if req.TermDays != nil {
			loan.TermDays = *req.TermDays
		}
		if req.StartDate != nil {
			loan.StartDate = *req.StartDate
		}
		if req.DueDate != nil {
			loan.DueDate = *req.DueDate
		}
		if req.Status != nil {
			loan.Status = *req.Status
		}
		if req.Notes != nil {
			loan.Notes = *req.Notes
		}

		if err := tx.Save(loan).Error; err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.attachDetails(s.db, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// AddPayment appends a payment to an in-progress loan. When the running total
// covers principal plus interest the loan completes and the collateral item is
// marked redeemed, atomically with the payment insert.
func (s *LoanService) AddPayment(loanID uuid.UUID, req *CreatePaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid payment: %v", err)
	}

	var payment *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, loanID)
		if err != nil {
			return err
		}

		switch loan.Status {
		case models.LoanStatusPending, models.LoanStatusActive,
			models.LoanStatusOverdue, models.LoanStatusExtended:
		default:
			return apperrors.InvalidStatef("cannot add payment to loan with status: %s", loan.Status)
		}

		paidBefore, err := sumPayments(tx, loan.ID)
		if err != nil {
			return err
		}

		payment, err = insertPayment(tx, loan.ID, req)
		if err != nil {
			return err
		}

		totalPaid := paidBefore + req.Amount
		interestAmount := loan.LoanAmount * (loan.InterestRate / 100)

		updates := map[string]interface{}{"total_paid": totalPaid}
		if totalPaid >= loan.LoanAmount+interestAmount {
			updates["status"] = models.LoanStatusCompleted
			if err := tx.Model(&models.Item{}).
				Where("id = ?", loan.ItemID).
				Update("status", models.ItemStatusRedeemed).Error; err != nil {
				return fmt.Errorf("failed to update item status: %w", err)
			}
		}
		if err := tx.Model(loan).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ExtendLoan pushes the due date back by the requested number of days. An
// optional partial payment is recorded before the status change.
func (s *LoanService) ExtendLoan(loanID uuid.UUID, req *ExtendLoanRequest) (*models.Loan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid extension request: %v", err)
	}

	var extended *models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, loanID)
		if err != nil {
			return err
		}

		if loan.Status != models.LoanStatusActive && loan.Status != models.LoanStatusOverdue {
			return apperrors.InvalidStatef("cannot extend loan with status: %s", loan.Status)
		}

		if req.Payment != nil {
			if _, err := insertPayment(tx, loan.ID, req.Payment); err != nil {
				return err
			}
			loan.TotalPaid += req.Payment.Amount
		}

		loan.DueDate = loan.DueDate.AddDate(0, 0, req.AdditionalDays)
		loan.TermDays += req.AdditionalDays
		loan.Status = models.LoanStatusExtended
		loan.ExtensionCount++

		if req.Notes != "" {
			loan.Notes = appendNote(loan.Notes,
				fmt.Sprintf("Extended on %s: %s", time.Now().Format("2006-01-02"), req.Notes))
		}

		if err := tx.Save(loan).Error; err != nil {
			return fmt.Errorf("failed to extend loan: %w", err)
		}
		extended = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.attachDetails(s.db, extended); err != nil {
		return nil, err
	}
	return extended, nil
}

// RedeemLoan settles the loan in full: the payment must cover the remaining
// balance computed at call time. The loan completes and the item is redeemed.
func (s *LoanService) RedeemLoan(loanID uuid.UUID, req *RedeemLoanRequest) (*models.Loan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid redemption request: %v", err)
	}

	var redeemed *models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, loanID)
		if err != nil {
			return err
		}

		switch loan.Status {
		case models.LoanStatusActive, models.LoanStatusOverdue, models.LoanStatusExtended:
		default:
			return apperrors.InvalidStatef("cannot redeem loan with status: %s", loan.Status)
		}

		paidBefore, err := sumPayments(tx, loan.ID)
		if err != nil {
			return err
		}
		interestAmount := loan.LoanAmount * (loan.InterestRate / 100)
		remainingBalance := loan.LoanAmount + interestAmount - paidBefore

		if req.Payment.Amount < remainingBalance {
			return apperrors.Validationf(
				"redemption payment (%.2f) is less than the remaining balance (%.2f)",
				req.Payment.Amount, remainingBalance)
		}

		if _, err := insertPayment(tx, loan.ID, &req.Payment); err != nil {
			return err
		}

		loan.TotalPaid = paidBefore + req.Payment.Amount
		loan.Status = models.LoanStatusCompleted
		if req.Notes != "" {
			loan.Notes = appendNote(loan.Notes,
				fmt.Sprintf("Redeemed on %s: %s", time.Now().Format("2006-01-02"), req.Notes))
		}
		if err := tx.Save(loan).Error; err != nil {
			return fmt.Errorf("failed to redeem loan: %w", err)
		}

		if err := tx.Model(&models.Item{}).
			Where("id = ?", loan.ItemID).
			Update("status", models.ItemStatusRedeemed).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}

		redeemed = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.attachDetails(s.db, redeemed); err != nil {
		return nil, err
	}
	return redeemed, nil
}

// DefaultLoan marks the loan defaulted and the collateral forfeited. No
// payment is required or recorded.
func (s *LoanService) DefaultLoan(loanID uuid.UUID, req *DefaultLoanRequest) (*models.Loan, error) {
	defaultDate := req.DefaultDate
	if defaultDate.IsZero() {
		defaultDate = time.Now()
	}

	var defaulted *models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, loanID)
		if err != nil {
			return err
		}

		switch loan.Status {
		case models.LoanStatusActive, models.LoanStatusOverdue, models.LoanStatusExtended:
		default:
			return apperrors.InvalidStatef("cannot default loan with status: %s", loan.Status)
		}

		note := fmt.Sprintf("Defaulted on %s", defaultDate.Format("2006-01-02"))
		if req.Reason != "" {
			note += ", Reason: " + req.Reason
		}
		if req.Notes != "" {
			note += ", Notes: " + req.Notes
		}

		loan.Status = models.LoanStatusDefaulted
		loan.Notes = appendNote(loan.Notes, note)
		if err := tx.Save(loan).Error; err != nil {
			return fmt.Errorf("failed to default loan: %w", err)
		}

		if err := tx.Model(&models.Item{}).
			Where("id = ?", loan.ItemID).
			Update("status", models.ItemStatusDefaulted).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}

		defaulted = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.attachDetails(s.db, defaulted); err != nil {
		return nil, err
	}
	return defaulted, nil
}

// GetLoanStats aggregates loan counts and financial metrics.
func (s *LoanService) GetLoanStats(startDate, endDate *time.Time) (*LoanStats, error) {
	query := s.db.Model(&models.Loan{})
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}

	stats := &LoanStats{LoansByStatus: make(map[models.LoanStatus]int64)}

	if err := query.Session(&gorm.Session{}).Count(&stats.TotalLoans).Error; err != nil {
		return nil, fmt.Errorf("failed to count loans: %w", err)
	}

	statuses := []models.LoanStatus{
		models.LoanStatusPending, models.LoanStatusActive, models.LoanStatusOverdue,
		models.LoanStatusExtended, models.LoanStatusCompleted, models.LoanStatusDefaulted,
		models.LoanStatusCancelled,
	}
	for _, status := range statuses {
		var count int64
		if err := query.Session(&gorm.Session{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.LoansByStatus[status] = count
	}
	stats.ActiveLoans = stats.LoansByStatus[models.LoanStatusActive]
	stats.CompletedLoans = stats.LoansByStatus[models.LoanStatusCompleted]
	stats.DefaultedLoans = stats.LoansByStatus[models.LoanStatusDefaulted]

	inProgress := []models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}
	if err := query.Session(&gorm.Session{}).
		Where("due_date < ? AND status IN ?", time.Now(), inProgress).
		Count(&stats.OverdueLoans).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Loan{}).
		Select("COALESCE(SUM(loan_amount), 0)").Scan(&stats.TotalLoanAmount).Error; err != nil {
		return nil, err
	}

	var totalPayments float64
	if err := s.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalPayments).Error; err != nil {
		return nil, err
	}
	// Rough estimate: everything collected beyond principal is interest.
	if totalPayments > stats.TotalLoanAmount {
		stats.TotalInterestEarned = totalPayments - stats.TotalLoanAmount
	}

	if stats.TotalLoans > 0 {
		stats.AvgLoanAmount = stats.TotalLoanAmount / float64(stats.TotalLoans)
	}
	if err := s.db.Model(&models.Loan{}).
		Select("COALESCE(AVG(term_days), 0)").Scan(&stats.AvgLoanTerm).Error; err != nil {
		return nil, err
	}

	// 12-month origination series, newest month first.
	now := time.Now()
	for i := 0; i < 12; i++ {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var count int64
		var amount float64
		monthQuery := s.db.Model(&models.Loan{}).
			Where("created_at >= ? AND created_at < ?", monthStart, monthEnd)
		if err := monthQuery.Count(&count).Error; err != nil {
			return nil, err
		}
		if err := monthQuery.Select("COALESCE(SUM(loan_amount), 0)").Scan(&amount).Error; err != nil {
			return nil, err
		}

		stats.LoansByMonth = append(stats.LoansByMonth, MonthlyLoanStats{
			Month:  monthStart.Format("2006-01"),
			Count:  count,
			Amount: amount,
		})
	}

	return stats, nil
}

func appendNote(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
