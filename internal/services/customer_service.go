// internal/services/customer_service.go
package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

type CreateCustomerRequest struct {
	FirstName   string     `json:"first_name" validate:"required"`
	LastName    string     `json:"last_name" validate:"required"`
	Phone       string     `json:"phone" validate:"required,phone"`
	Email       string     `json:"email,omitempty" validate:"omitempty,email"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Country     string     `json:"country,omitempty"`
	ZipCode     string     `json:"zip_code,omitempty"`
	IDType      string     `json:"id_type,omitempty"`
	IDNumber    string     `json:"id_number,omitempty"`
	IDExpiry    *time.Time `json:"id_expiry,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreditScore *int       `json:"credit_score,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,phone"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string    `json:"address,omitempty"`
	City        *string    `json:"city,omitempty"`
	State       *string    `json:"state,omitempty"`
	Country     *string    `json:"country,omitempty"`
	ZipCode     *string    `json:"zip_code,omitempty"`
	IDType      *string    `json:"id_type,omitempty"`
	IDNumber    *string    `json:"id_number,omitempty"`
	IDExpiry    *time.Time `json:"id_expiry,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreditScore *int       `json:"credit_score,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type CustomerStats struct {
	TotalLoans      int64   `json:"total_loans"`
	ActiveLoans     int64   `json:"active_loans"`
	CompletedLoans  int64   `json:"completed_loans"`
	DefaultedLoans  int64   `json:"defaulted_loans"`
	TotalBorrowed   float64 `json:"total_borrowed"`
	TotalPaid       float64 `json:"total_paid"`
	TotalItems      int64   `json:"total_items"`
}

func (s *CustomerService) GetCustomers(params utils.PaginationParams, isActive *bool) ([]models.Customer, int64, error) {
	query := s.db.Model(&models.Customer{})

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ? OR LOWER(customer_code) LIKE ? OR LOWER(id_number) LIKE ?",
			term, term, term, term, term, term)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	allowedSortFields := []string{"created_at", "first_name", "last_name", "customer_code"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

func (s *CustomerService) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Preload("Loans", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Customer")
		}
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) CreateCustomer(req *CreateCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid customer: %v", err)
	}

	if req.IDNumber != "" {
		var count int64
		s.db.Model(&models.Customer{}).Where("id_number = ?", req.IDNumber).Count(&count)
		if count > 0 {
			return nil, apperrors.Conflictf("a customer with this ID number already exists")
		}
	}

	customer := &models.Customer{
		CustomerCode: utils.GenerateCustomerCode(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		ZipCode:      req.ZipCode,
		IDType:       req.IDType,
		IDNumber:     req.IDNumber,
		IDExpiry:     req.IDExpiry,
		DateOfBirth:  req.DateOfBirth,
		CreditScore:  req.CreditScore,
		IsActive:     true,
		Notes:        req.Notes,
	}
	if err := s.db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) UpdateCustomer(id uuid.UUID, req *UpdateCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid customer update: %v", err)
	}

	var customer models.Customer
	if err := s.db.Where("id = ?", id).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Customer")
		}
		return nil, err
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.State != nil {
		customer.State = *req.State
	}
	if req.Country != nil {
		customer.Country = *req.Country
	}
	if req.ZipCode != nil {
		customer.ZipCode = *req.ZipCode
	}
	if req.IDExpiry != nil {
		customer.IDExpiry = req.IDExpiry
	}
	if req.IDType != nil {
		customer.IDType = *req.IDType
	}
	if req.IDNumber != nil {
		customer.IDNumber = *req.IDNumber
	}
	if req.DateOfBirth != nil {
		customer.DateOfBirth = req.DateOfBirth
	}
	if req.CreditScore != nil {
		customer.CreditScore = req.CreditScore
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.db.Save(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return &customer, nil
}

// DeactivateCustomer soft-deletes a customer. Customers with loans still in
// progress cannot be deactivated.
func (s *CustomerService) DeactivateCustomer(id uuid.UUID) error {
	var customer models.Customer
	if err := s.db.Where("id = ?", id).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Customer")
		}
		return err
	}

	var openLoans int64
	inProgress := []models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}
	if err := s.db.Model(&models.Loan{}).
		Where("customer_id = ? AND status IN ?", id, inProgress).
		Count(&openLoans).Error; err != nil {
		return err
	}
	if openLoans > 0 {
		return apperrors.Conflictf("cannot deactivate customer with %d open loan(s)", openLoans)
	}

	return s.db.Model(&customer).Update("is_active", false).Error
}

// GetCustomerStats aggregates a customer's loan history.
func (s *CustomerService) GetCustomerStats(id uuid.UUID) (*CustomerStats, error) {
	var customer models.Customer
	if err := s.db.Where("id = ?", id).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Customer")
		}
		return nil, err
	}

	stats := &CustomerStats{}
	loans := s.db.Model(&models.Loan{}).Where("customer_id = ?", id)

	if err := loans.Session(&gorm.Session{}).Count(&stats.TotalLoans).Error; err != nil {
		return nil, err
	}
	inProgress := []models.LoanStatus{
		models.LoanStatusActive, models.LoanStatusOverdue, models.LoanStatusExtended,
	}
	loans.Session(&gorm.Session{}).Where("status IN ?", inProgress).Count(&stats.ActiveLoans)
	loans.Session(&gorm.Session{}).Where("status = ?", models.LoanStatusCompleted).Count(&stats.CompletedLoans)
	loans.Session(&gorm.Session{}).Where("status = ?", models.LoanStatusDefaulted).Count(&stats.DefaultedLoans)
	loans.Session(&gorm.Session{}).Select("COALESCE(SUM(loan_amount), 0)").Scan(&stats.TotalBorrowed)
	loans.Session(&gorm.Session{}).Select("COALESCE(SUM(total_paid), 0)").Scan(&stats.TotalPaid)

	s.db.Model(&models.Loan{}).
		Where("customer_id = ?", id).
		Distinct("item_id").Count(&stats.TotalItems)

	return stats, nil
}

// ExportCustomers renders the matching customers as CSV or JSON, selected
// by format ("csv" when empty).
func (s *CustomerService) ExportCustomers(params utils.PaginationParams, isActive *bool, format string) ([]byte, error) {
	if format != "" && format != "csv" && format != "json" {
		return nil, apperrors.Validationf("unsupported export format: %s", format)
	}

	query := s.db.Model(&models.Customer{})
	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ? OR LOWER(customer_code) LIKE ? OR LOWER(id_number) LIKE ?",
			term, term, term, term, term, term)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	var customers []models.Customer
	if err := query.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to export customers: %w", err)
	}

	if format == "json" {
		return json.Marshal(customers)
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"customer_code", "name", "phone", "email", "city",
		"id_number", "is_active", "created_at",
	})
	for _, c := range customers {
		w.Write([]string{
			c.CustomerCode,
			c.FullName(),
			c.Phone,
			c.Email,
			c.City,
			c.IDNumber,
			strconv.FormatBool(c.IsActive),
			c.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
