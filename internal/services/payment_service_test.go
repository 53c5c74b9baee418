// internal/services/payment_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func TestUpdatePayment(t *testing.T) {
	db := newTestDB(t)
	loans := NewLoanService(db)
	svc := NewPaymentService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	t.Run("corrects the amount and recomputes the loan total", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusPawned)
		loan := seedLoan(t, db, customer, item, 1000, 5, 30, models.LoanStatusActive)

		payment, err := loans.AddPayment(loan.ID, &CreatePaymentRequest{
			Amount:        300,
			PaymentDate:   time.Now(),
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)

		amount := 250.0
		updated, err := svc.UpdatePayment(payment.ID, &UpdatePaymentRequest{Amount: &amount})
		require.NoError(t, err)
		assert.Equal(t, 250.0, updated.Amount)

		reloaded, err := loans.GetLoan(loan.ID)
		require.NoError(t, err)
		assert.Equal(t, 250.0, reloaded.TotalPaid)
		assert.Equal(t, 800.0, reloaded.RemainingBalance)
	})

	t.Run("payments on a settled loan are frozen", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusPawned)
		loan := seedLoan(t, db, customer, item, 1000, 5, 30, models.LoanStatusActive)

		payment, err := loans.AddPayment(loan.ID, &CreatePaymentRequest{
			Amount:        1050,
			PaymentDate:   time.Now(),
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)

		amount := 100.0
		_, err = svc.UpdatePayment(payment.ID, &UpdatePaymentRequest{Amount: &amount})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

		reloaded, err := svc.GetPayment(payment.ID)
		require.NoError(t, err)
		assert.Equal(t, 1050.0, reloaded.Amount)
	})

	t.Run("unknown payment is a not found error", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusPawned)
		loan := seedLoan(t, db, customer, item, 1000, 5, 30, models.LoanStatusActive)
		payment, err := loans.AddPayment(loan.ID, &CreatePaymentRequest{
			Amount:        100,
			PaymentDate:   time.Now(),
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)
		require.NoError(t, db.Delete(payment).Error)

		amount := 50.0
		_, err = svc.UpdatePayment(payment.ID, &UpdatePaymentRequest{Amount: &amount})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestDeletePayment(t *testing.T) {
	db := newTestDB(t)
	loans := NewLoanService(db)
	svc := NewPaymentService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	t.Run("removes the payment and recomputes the loan total", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusPawned)
		loan := seedLoan(t, db, customer, item, 1000, 5, 30, models.LoanStatusActive)

		keep, err := loans.AddPayment(loan.ID, &CreatePaymentRequest{
			Amount:        200,
			PaymentDate:   time.Now(),
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)
		remove, err := loans.AddPayment(loan.ID, &CreatePaymentRequest{
			Amount:        100,
			PaymentDate:   time.Now(),
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeletePayment(remove.ID))

		reloaded, err := loans.GetLoan(loan.ID)
		require.NoError(t, err)
		assert.Equal(t, 200.0, reloaded.TotalPaid)
		require.Len(t, reloaded.Payments, 1)
		assert.Equal(t, keep.ID, reloaded.Payments[0].ID)
	})

	t.Run("refuses deletion on a settled loan", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusPawned)
		loan := seedLoan(t, db, customer, item, 1000, 5, 30, models.LoanStatusActive)

		payment, err := loans.AddPayment(loan.ID, &CreatePaymentRequest{
			Amount:        1050,
			PaymentDate:   time.Now(),
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)

		err = svc.DeletePayment(payment.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

		_, err = svc.GetPayment(payment.ID)
		assert.NoError(t, err)
	})
}

func TestGetPayments(t *testing.T) {
	db := newTestDB(t)
	loans := NewLoanService(db)
	svc := NewPaymentService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	item := seedItem(t, db, branch, models.ItemStatusPawned)
	loan := seedLoan(t, db, customer, item, 1000, 5, 30, models.LoanStatusActive)
	other := seedItem(t, db, branch, models.ItemStatusPawned)
	otherLoan := seedLoan(t, db, customer, other, 500, 10, 30, models.LoanStatusActive)

	for _, target := range []*models.Loan{loan, loan, otherLoan} {
		_, err := loans.AddPayment(target.ID, &CreatePaymentRequest{
			Amount:        100,
			PaymentDate:   time.Now(),
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)
	}

	t.Run("filters by loan", func(t *testing.T) {
		payments, total, err := svc.GetPayments(PaymentSearchParams{
			PaginationParams: testPagination(),
			LoanID:           &loan.ID,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, payments, 2)
	})

	t.Run("lists everything without filters", func(t *testing.T) {
		_, total, err := svc.GetPayments(PaymentSearchParams{PaginationParams: testPagination()})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})
}
