// internal/services/testutil_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Branch{},
		&models.EmployeeType{},
		&models.Employee{},
		&models.Customer{},
		&models.Item{},
		&models.Loan{},
		&models.Payment{},
		&models.Transaction{},
		&models.Application{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func seedBranch(t *testing.T, db *gorm.DB) *models.Branch {
	t.Helper()

	branch := &models.Branch{Name: "Main Branch"}
	require.NoError(t, db.Create(branch).Error)
	return branch
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		CustomerCode: utils.GenerateCustomerCode(),
		FirstName:    "Jamie",
		LastName:     "Rivera",
		Phone:        "555-0100",
		IsActive:     true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedItem(t *testing.T, db *gorm.DB, branch *models.Branch, status models.ItemStatus) *models.Item {
	t.Helper()

	item := &models.Item{
		ItemCode:        utils.GenerateItemCode(),
		Name:            "Gold Ring",
		Category:        models.ItemCategoryJewelry,
		BranchID:        branch.ID,
		Status:          status,
		AppraisedValue:  1500,
		AcquisitionDate: time.Now(),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// seedLoan creates a loan directly, bypassing origination, so tests can start
// from an arbitrary status.
func seedLoan(t *testing.T, db *gorm.DB, customer *models.Customer, item *models.Item, amount, rate float64, termDays int, status models.LoanStatus) *models.Loan {
	t.Helper()

	start := time.Now()
	loan := &models.Loan{
		LoanCode:     utils.GenerateLoanCode(),
		CustomerID:   customer.ID,
		ItemID:       item.ID,
		LoanAmount:   amount,
		InterestRate: rate,
		TermDays:     termDays,
		StartDate:    start,
		DueDate:      start.AddDate(0, 0, termDays),
		Status:       status,
	}
	require.NoError(t, db.Create(loan).Error)
	return loan
}
