// internal/services/application_service.go
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

type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

type CreateApplicationRequest struct {
	CustomerID      uuid.UUID           `json:"customer_id" validate:"required"`
	BranchID        uuid.UUID           `json:"branch_id" validate:"required"`
	ItemCategory    models.ItemCategory `json:"item_category" validate:"required"`
	ItemDescription string              `json:"item_description" validate:"required"`
	EstimatedValue  float64             `json:"estimated_value" validate:"required,gt=0"`
	LoanAmount      float64             `json:"loan_amount" validate:"required,gt=0"`
	InterestRate    float64             `json:"interest_rate" validate:"required,gt=0"`
	TermMonths      int                 `json:"term_months" validate:"required,gt=0"`
	Notes           string              `json:"notes,omitempty"`
}

type UpdateApplicationRequest struct {
	ItemCategory    *models.ItemCategory `json:"item_category,omitempty"`
	ItemDescription *string              `json:"item_description,omitempty"`
	EstimatedValue  *float64             `json:"estimated_value,omitempty"`
	LoanAmount      *float64             `json:"loan_amount,omitempty"`
	InterestRate    *float64             `json:"interest_rate,omitempty"`
	TermMonths      *int                 `json:"term_months,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
}

type ProcessApplicationRequest struct {
	Status          models.ApplicationStatus `json:"status" validate:"required"`
	RejectionReason string                   `json:"rejection_reason,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
}

type ApplicationSearchParams struct {
	utils.PaginationParams
	Status       *models.ApplicationStatus `json:"status,omitempty"`
	CustomerID   *uuid.UUID                `json:"customer_id,omitempty"`
	BranchID     *uuid.UUID                `json:"branch_id,omitempty"`
	ItemCategory *models.ItemCategory      `json:"item_category,omitempty"`
	DateFrom     *time.Time                `json:"date_from,omitempty"`
	DateTo       *time.Time                `json:"date_to,omitempty"`
}

type BulkUpdateApplicationsRequest struct {
	IDs             []uuid.UUID              `json:"ids" validate:"required,min=1"`
	Status          models.ApplicationStatus `json:"status" validate:"required"`
	RejectionReason string                   `json:"rejection_reason,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
}

type ApplicationStats struct {
	Total           int64                              `json:"total"`
	ByStatus        map[models.ApplicationStatus]int64 `json:"by_status"`
	ApprovalRate    float64                            `json:"approval_rate"`
	AvgLoanAmount   float64                            `json:"avg_loan_amount"`
	TotalRequested  float64                            `json:"total_requested"`
}

type ApplicationTrend struct {
	Month    string `json:"month"`
	Total    int64  `json:"total"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
}

func (s *ApplicationService) GetApplications(params ApplicationSearchParams) ([]models.Application, int64, error) {
	query := s.db.Model(&models.Application{})

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(application_number) LIKE ? OR LOWER(item_description) LIKE ?", term, term)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.ItemCategory != nil {
		query = query.Where("item_category = ?", *params.ItemCategory)
	}
	if params.DateFrom != nil {
		query = query.Where("created_at >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("created_at <= ?", *params.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "loan_amount", "estimated_value", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var applications []models.Application
	if err := query.Preload("Customer").Preload("Branch").Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, total, nil
}

func (s *ApplicationService) GetApplication(id uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := s.db.Preload("Customer").Preload("Branch").Preload("ProcessedBy").
		Where("id = ?", id).First(&application).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Application")
		}
		return nil, err
	}
	return &application, nil
}

// CreateApplication files a loan request. The requested amount may not exceed
// the estimated value of the collateral.
func (s *ApplicationService) CreateApplication(req *CreateApplicationRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid application: %v", err)
	}

	if req.LoanAmount > req.EstimatedValue {
		return nil, apperrors.Validationf(
			"loan amount (%.2f) cannot exceed the estimated value (%.2f)",
			req.LoanAmount, req.EstimatedValue)
	}

	var customer models.Customer
	if err := s.db.Where("id = ?", req.CustomerID).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Customer")
		}
		return nil, err
	}

	application := &models.Application{
		ApplicationNumber: utils.GenerateApplicationNumber(),
		CustomerID:        req.CustomerID,
		BranchID:          req.BranchID,
		ItemCategory:      req.ItemCategory,
		ItemDescription:   req.ItemDescription,
		EstimatedValue:    req.EstimatedValue,
		LoanAmount:        req.LoanAmount,
		InterestRate:      req.InterestRate,
		TermMonths:        req.TermMonths,
		Status:            models.ApplicationStatusPending,
		Notes:             req.Notes,
	}
	if err := s.db.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return application, nil
}

// UpdateApplication edits a pending application. Processed applications are
// read-only.
func (s *ApplicationService) UpdateApplication(id uuid.UUID, req *UpdateApplicationRequest) (*models.Application, error) {
	var application models.Application
	if err := s.db.Where("id = ?", id).First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Application")
		}
		return nil, err
	}

	if application.Processed() {
		return nil, apperrors.InvalidStatef("cannot update application with status: %s", application.Status)
	}

	if req.ItemCategory != nil {
		application.ItemCategory = *req.ItemCategory
	}
	if req.ItemDescription != nil {
		application.ItemDescription = *req.ItemDescription
	}
	if req.EstimatedValue != nil {
		application.EstimatedValue = *req.EstimatedValue
	}
	if req.LoanAmount != nil {
		application.LoanAmount = *req.LoanAmount
	}
	if req.InterestRate != nil {
		application.InterestRate = *req.InterestRate
	}
	if req.TermMonths != nil {
		application.TermMonths = *req.TermMonths
	}
	if req.Notes != nil {
		application.Notes = *req.Notes
	}

	if application.LoanAmount > application.EstimatedValue {
		return nil, apperrors.Validationf(
			"loan amount (%.2f) cannot exceed the estimated value (%.2f)",
			application.LoanAmount, application.EstimatedValue)
	}

	if err := s.db.Save(&application).Error; err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return &application, nil
}

// ProcessApplication approves, rejects or cancels a pending application and
// stamps who processed it and when. Rejection requires a reason.
func (s *ApplicationService) ProcessApplication(id uuid.UUID, processedByID uuid.UUID, req *ProcessApplicationRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid processing request: %v", err)
	}

	switch req.Status {
	case models.ApplicationStatusApproved, models.ApplicationStatusRejected, models.ApplicationStatusCancelled:
	default:
		return nil, apperrors.Validationf("invalid target status: %s", req.Status)
	}

	if req.Status == models.ApplicationStatusRejected && req.RejectionReason == "" {
		return nil, apperrors.Validationf("a rejection reason is required")
	}

	var processed *models.Application
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.Where("id = ?", id).First(&application).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Application")
			}
			return err
		}

		if application.Processed() {
			return apperrors.InvalidStatef("application has already been processed, status: %s", application.Status)
		}

		now := time.Now()
		application.Status = req.Status
		application.ProcessedByID = &processedByID
		application.ProcessedAt = &now
		if req.Status == models.ApplicationStatusRejected {
			application.RejectionReason = req.RejectionReason
		}
		if req.Notes != "" {
			application.Notes = appendNote(application.Notes,
				fmt.Sprintf("Processed on %s: %s", now.Format("2006-01-02"), req.Notes))
		}

		if err := tx.Save(&application).Error; err != nil {
			return fmt.Errorf("failed to process application: %w", err)
		}
		processed = &application
		return nil
	})
	if err != nil {
		return nil, err
	}
	return processed, nil
}

// DeleteApplication removes a pending application. Processed applications are
// part of the audit trail and stay.
func (s *ApplicationService) DeleteApplication(id uuid.UUID) error {
	var application models.Application
	if err := s.db.Where("id = ?", id).First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Application")
		}
		return err
	}

	if application.Processed() {
		return apperrors.Conflictf("cannot delete application with status: %s", application.Status)
	}

	return s.db.Delete(&application).Error
}

// BulkDeleteApplications removes multiple pending applications. The whole
// batch fails if any of them has been processed.
func (s *ApplicationService) BulkDeleteApplications(ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.Validationf("no application ids provided")
	}

	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var processedCount int64
		if err := tx.Model(&models.Application{}).
			Where("id IN ? AND status <> ?", ids, models.ApplicationStatusPending).
			Count(&processedCount).Error; err != nil {
			return err
		}
		if processedCount > 0 {
			return apperrors.Conflictf("%d application(s) in the batch have already been processed", processedCount)
		}

		result := tx.Where("id IN ?", ids).Delete(&models.Application{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// BulkUpdateApplications moves multiple pending applications to a new status.
func (s *ApplicationService) BulkUpdateApplications(processedByID uuid.UUID, req *BulkUpdateApplicationsRequest) (int64, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, apperrors.Validationf("invalid bulk update: %v", err)
	}

	switch req.Status {
	case models.ApplicationStatusApproved, models.ApplicationStatusRejected, models.ApplicationStatusCancelled:
	default:
		return 0, apperrors.Validationf("invalid target status: %s", req.Status)
	}

	if req.Status == models.ApplicationStatusRejected && req.RejectionReason == "" {
		return 0, apperrors.Validationf("a rejection reason is required")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":          req.Status,
		"processed_by_id": processedByID,
		"processed_at":    now,
	}
	if req.Status == models.ApplicationStatusRejected {
		updates["rejection_reason"] = req.RejectionReason
	}

	result := s.db.Model(&models.Application{}).
		Where("id IN ? AND status = ?", req.IDs, models.ApplicationStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (s *ApplicationService) GetApplicationStats(startDate, endDate *time.Time) (*ApplicationStats, error) {
	query := s.db.Model(&models.Application{})
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}

	stats := &ApplicationStats{ByStatus: make(map[models.ApplicationStatus]int64)}

	if err := query.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statuses := []models.ApplicationStatus{
		models.ApplicationStatusPending, models.ApplicationStatusApproved,
		models.ApplicationStatusRejected, models.ApplicationStatusCancelled,
	}
	for _, status := range statuses {
		var count int64
		if err := query.Session(&gorm.Session{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}

	processedCount := stats.ByStatus[models.ApplicationStatusApproved] + stats.ByStatus[models.ApplicationStatusRejected]
	if processedCount > 0 {
		stats.ApprovalRate = float64(stats.ByStatus[models.ApplicationStatusApproved]) / float64(processedCount) * 100
	}

	query.Session(&gorm.Session{}).Select("COALESCE(SUM(loan_amount), 0)").Scan(&stats.TotalRequested)
	if stats.Total > 0 {
		stats.AvgLoanAmount = stats.TotalRequested / float64(stats.Total)
	}

	return stats, nil
}

// GetApplicationTrends returns a monthly application volume series.
func (s *ApplicationService) GetApplicationTrends(months int) ([]ApplicationTrend, error) {
	if months <= 0 {
		months = 6
	}

	now := time.Now()
	trends := make([]ApplicationTrend, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		base := s.db.Model(&models.Application{}).
			Where("created_at >= ? AND created_at < ?", monthStart, monthEnd)

		trend := ApplicationTrend{Month: monthStart.Format("2006-01")}
		if err := base.Session(&gorm.Session{}).Count(&trend.Total).Error; err != nil {
			return nil, err
		}
		base.Session(&gorm.Session{}).Where("status = ?", models.ApplicationStatusApproved).Count(&trend.Approved)
		base.Session(&gorm.Session{}).Where("status = ?", models.ApplicationStatusRejected).Count(&trend.Rejected)

		trends = append(trends, trend)
	}
	return trends, nil
}

// ExportApplications renders the matching applications as CSV or JSON,
// selected by format ("csv" when empty).
func (s *ApplicationService) ExportApplications(params ApplicationSearchParams, format string) ([]byte, error) {
	if format != "" && format != "csv" && format != "json" {
		return nil, apperrors.Validationf("unsupported export format: %s", format)
	}

	query := s.db.Model(&models.Application{}).Preload("Customer")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.DateFrom != nil {
		query = query.Where("created_at >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("created_at <= ?", *params.DateTo)
	}

	var applications []models.Application
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to export applications: %w", err)
	}

	if format == "json" {
		return json.Marshal(applications)
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"application_number", "customer", "item_category", "item_description",
		"estimated_value", "loan_amount", "interest_rate", "term_months",
		"status", "created_at",
	})
	for _, a := range applications {
		customerName := ""
		if a.Customer != nil {
			customerName = a.Customer.FullName()
		}
		w.Write([]string{
			a.ApplicationNumber,
			customerName,
			string(a.ItemCategory),
			a.ItemDescription,
			strconv.FormatFloat(a.EstimatedValue, 'f', 2, 64),
			strconv.FormatFloat(a.LoanAmount, 'f', 2, 64),
			strconv.FormatFloat(a.InterestRate, 'f', 2, 64),
			strconv.Itoa(a.TermMonths),
			string(a.Status),
			a.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
