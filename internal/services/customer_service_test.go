// internal/services/customer_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func TestCreateCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)

	t.Run("assigns a customer code", func(t *testing.T) {
		customer, err := svc.CreateCustomer(&CreateCustomerRequest{
			FirstName: "Dana",
			LastName:  "Okafor",
			Phone:     "555-0101",
			IDNumber:  "DL-4471",
		})
		require.NoError(t, err)

		assert.Equal(t, "C-", customer.CustomerCode[:2])
		assert.True(t, customer.IsActive)
	})

	t.Run("duplicate id number is a conflict", func(t *testing.T) {
		_, err := svc.CreateCustomer(&CreateCustomerRequest{
			FirstName: "Dana",
			LastName:  "Duplicate",
			Phone:     "555-0102",
			IDNumber:  "DL-4471",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		_, err := svc.CreateCustomer(&CreateCustomerRequest{FirstName: "Solo"})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestDeactivateCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	branch := seedBranch(t, db)

	t.Run("deactivates when no loans are open", func(t *testing.T) {
		customer := seedCustomer(t, db)
		item := seedItem(t, db, branch, models.ItemStatusRedeemed)
		seedLoan(t, db, customer, item, 500, 10, 30, models.LoanStatusCompleted)

		require.NoError(t, svc.DeactivateCustomer(customer.ID))

		reloaded, err := svc.GetCustomer(customer.ID)
		require.NoError(t, err)
		assert.False(t, reloaded.IsActive)
	})

	t.Run("open loans block deactivation", func(t *testing.T) {
		customer := seedCustomer(t, db)
		item := seedItem(t, db, branch, models.ItemStatusPawned)
		seedLoan(t, db, customer, item, 500, 10, 30, models.LoanStatusActive)

		err := svc.DeactivateCustomer(customer.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		assert.Contains(t, err.Error(), "open loan")

		reloaded, err := svc.GetCustomer(customer.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.IsActive)
	})
}

func TestCustomerStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	active := seedItem(t, db, branch, models.ItemStatusPawned)
	loan := seedLoan(t, db, customer, active, 1000, 5, 30, models.LoanStatusActive)
	loan.TotalPaid = 300
	require.NoError(t, db.Save(loan).Error)
	require.NoError(t, db.Create(&models.Payment{
		PaymentNumber: "P-stat0001",
		LoanID:        loan.ID,
		Amount:        300,
		PaymentMethod: models.PaymentMethodCash,
		PaymentDate:   loan.StartDate,
	}).Error)

	done := seedItem(t, db, branch, models.ItemStatusRedeemed)
	seedLoan(t, db, customer, done, 500, 10, 30, models.LoanStatusCompleted)

	stats, err := svc.GetCustomerStats(customer.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalLoans)
	assert.EqualValues(t, 1, stats.ActiveLoans)
	assert.Equal(t, 1500.0, stats.TotalBorrowed)
	assert.Equal(t, 300.0, stats.TotalPaid)
	assert.EqualValues(t, 2, stats.TotalItems)
}

func TestExportCustomers(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	customer := seedCustomer(t, db)

	data, err := svc.ExportCustomers(testPagination(), nil, "csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "customer_code")
	assert.Contains(t, string(data), "Jamie Rivera")

	data, err = svc.ExportCustomers(testPagination(), nil, "json")
	require.NoError(t, err)
	assert.Contains(t, string(data), customer.CustomerCode)

	_, err = svc.ExportCustomers(testPagination(), nil, "pdf")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
