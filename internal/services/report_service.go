// internal/services/report_service.go
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
)

// ReportService produces the dashboard and back-office reports.
type ReportService struct {
	db           *gorm.DB
	loans        *LoanService
	inventory    *InventoryService
	applications *ApplicationService
}

func NewReportService(db *gorm.DB, loans *LoanService, inventory *InventoryService, applications *ApplicationService) *ReportService {
	return &ReportService{
		db:           db,
		loans:        loans,
		inventory:    inventory,
		applications: applications,
	}
}

type DashboardOverview struct {
	ActiveLoans         int64   `json:"active_loans"`
	OverdueLoans        int64   `json:"overdue_loans"`
	PendingApplications int64   `json:"pending_applications"`
	ItemsInPawn         int64   `json:"items_in_pawn"`
	ItemsForSale        int64   `json:"items_for_sale"`
	TotalCustomers      int64   `json:"total_customers"`
	OutstandingAmount   float64 `json:"outstanding_amount"`
	PaymentsToday       float64 `json:"payments_today"`
	PaymentsThisMonth   float64 `json:"payments_this_month"`
	LoansThisMonth      int64   `json:"loans_this_month"`
}

type RevenuePoint struct {
	Date     string  `json:"date"`
	Payments float64 `json:"payments"`
	Sales    float64 `json:"sales"`
}

type LoanReport struct {
	Stats   *LoanStats    `json:"stats"`
	Overdue []models.Loan `json:"overdue_loans"`
}

type CustomerReport struct {
	TotalCustomers    int64   `json:"total_customers"`
	ActiveCustomers   int64   `json:"active_customers"`
	NewThisMonth      int64   `json:"new_this_month"`
	ReturningRate     float64 `json:"returning_rate"`
	AvgLoansPerPerson float64 `json:"avg_loans_per_customer"`
}

// GetDashboardOverview collects the headline numbers for the landing page.
func (s *ReportService) GetDashboardOverview() (*DashboardOverview, error) {
	overview := &DashboardOverview{}
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	inProgress := []models.LoanStatus{
		models.LoanStatusActive, models.LoanStatusOverdue, models.LoanStatusExtended,
	}
	if err := s.db.Model(&models.Loan{}).
		Where("status IN ?", inProgress).Count(&overview.ActiveLoans).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.Loan{}).
		Where("due_date < ? AND status IN ?", now,
			[]models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}).
		Count(&overview.OverdueLoans)
	s.db.Model(&models.Application{}).
		Where("status = ?", models.ApplicationStatusPending).Count(&overview.PendingApplications)
	s.db.Model(&models.Item{}).
		Where("status = ?", models.ItemStatusPawned).Count(&overview.ItemsInPawn)
	s.db.Model(&models.Item{}).
		Where("status = ?", models.ItemStatusForSale).Count(&overview.ItemsForSale)
	s.db.Model(&models.Customer{}).
		Where("is_active = ?", true).Count(&overview.TotalCustomers)
	s.db.Model(&models.Loan{}).
		Where("created_at >= ?", startOfMonth).Count(&overview.LoansThisMonth)

	// Outstanding principal plus interest minus what has been collected.
	var principal, collected float64
	s.db.Model(&models.Loan{}).
		Where("status IN ?", inProgress).
		Select("COALESCE(SUM(loan_amount + loan_amount * interest_rate / 100), 0)").
		Scan(&principal)
	s.db.Model(&models.Loan{}).
		Where("status IN ?", inProgress).
		Select("COALESCE(SUM(total_paid), 0)").
		Scan(&collected)
	overview.OutstandingAmount = principal - collected

	s.db.Model(&models.Payment{}).
		Where("payment_date >= ?", startOfDay).
		Select("COALESCE(SUM(amount), 0)").Scan(&overview.PaymentsToday)
	s.db.Model(&models.Payment{}).
		Where("payment_date >= ?", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&overview.PaymentsThisMonth)

	return overview, nil
}

// GetRevenueSeries returns daily payment and sale totals for the given window.
func (s *ReportService) GetRevenueSeries(days int) ([]RevenuePoint, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	now := time.Now()
	series := make([]RevenuePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		point := RevenuePoint{Date: dayStart.Format("2006-01-02")}
		if err := s.db.Model(&models.Payment{}).
			Where("payment_date >= ? AND payment_date < ?", dayStart, dayEnd).
			Select("COALESCE(SUM(amount), 0)").Scan(&point.Payments).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.Item{}).
			Where("sold_date >= ? AND sold_date < ?", dayStart, dayEnd).
			Select("COALESCE(SUM(sale_price), 0)").Scan(&point.Sales).Error; err != nil {
			return nil, err
		}
		series = append(series, point)
	}
	return series, nil
}

// GetLoanReport combines aggregate loan stats with the current overdue list.
func (s *ReportService) GetLoanReport(startDate, endDate *time.Time) (*LoanReport, error) {
	stats, err := s.loans.GetLoanStats(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var overdue []models.Loan
	err = s.db.Preload("Customer").Preload("Item").
		Where("due_date < ? AND status IN ?", time.Now(),
			[]models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}).
		Order("due_date ASC").Limit(50).
		Find(&overdue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load overdue loans: %w", err)
	}
	for i := range overdue {
		if err := s.loans.attachDetails(s.db, &overdue[i]); err != nil {
			return nil, err
		}
	}

	return &LoanReport{Stats: stats, Overdue: overdue}, nil
}

func (s *ReportService) GetInventoryReport(branchID *string) (*InventoryStats, error) {
	if branchID == nil || *branchID == "" {
		return s.inventory.GetInventoryStats(nil)
	}
	id, err := uuid.Parse(*branchID)
	if err != nil {
		return nil, apperrors.Validationf("invalid branch id")
	}
	return s.inventory.GetInventoryStats(&id)
}

func (s *ReportService) GetCustomerReport() (*CustomerReport, error) {
	report := &CustomerReport{}
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if err := s.db.Model(&models.Customer{}).Count(&report.TotalCustomers).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.Customer{}).Where("is_active = ?", true).Count(&report.ActiveCustomers)
	s.db.Model(&models.Customer{}).Where("created_at >= ?", startOfMonth).Count(&report.NewThisMonth)

	var customersWithLoans, repeatCustomers, totalLoans int64
	s.db.Model(&models.Loan{}).Distinct("customer_id").Count(&customersWithLoans)
	s.db.Model(&models.Loan{}).
		Select("customer_id").Group("customer_id").Having("COUNT(*) > 1").
		Count(&repeatCustomers)
	s.db.Model(&models.Loan{}).Count(&totalLoans)

	if customersWithLoans > 0 {
		report.ReturningRate = float64(repeatCustomers) / float64(customersWithLoans) * 100
		report.AvgLoansPerPerson = float64(totalLoans) / float64(customersWithLoans)
	}
	return report, nil
}

// ExportLoans renders the matching loans as CSV or JSON for download,
// selected by format ("csv" when empty).
func (s *ReportService) ExportLoans(status *models.LoanStatus, startDate, endDate *time.Time, format string) ([]byte, error) {
	if format != "" && format != "csv" && format != "json" {
		return nil, apperrors.Validationf("unsupported export format: %s", format)
	}

	query := s.db.Model(&models.Loan{}).Preload("Customer").Preload("Item")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}

	var loans []models.Loan
	if err := query.Order("created_at DESC").Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to export loans: %w", err)
	}

	if format == "json" {
		return json.Marshal(loans)
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"loan_code", "customer", "item", "loan_amount", "interest_rate",
		"term_days", "start_date", "due_date", "status", "total_paid",
	})
	for _, l := range loans {
		customerName, itemName := "", ""
		if l.Customer != nil {
			customerName = l.Customer.FullName()
		}
		if l.Item != nil {
			itemName = l.Item.Name
		}
		w.Write([]string{
			l.LoanCode,
			customerName,
			itemName,
			strconv.FormatFloat(l.LoanAmount, 'f', 2, 64),
			strconv.FormatFloat(l.InterestRate, 'f', 2, 64),
			strconv.Itoa(l.TermDays),
			l.StartDate.Format("2006-01-02"),
			l.DueDate.Format("2006-01-02"),
			string(l.Status),
			strconv.FormatFloat(l.TotalPaid, 'f', 2, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
