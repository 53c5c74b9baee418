// internal/services/transaction_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func TestCreateTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db)
	branch := seedBranch(t, db)

	t.Run("defaults to completed with a generated number", func(t *testing.T) {
		transaction, err := svc.CreateTransaction(&CreateTransactionRequest{
			BranchID:        branch.ID,
			TransactionType: models.TransactionTypePawn,
			Amount:          1000,
		})
		require.NoError(t, err)

		assert.Equal(t, "T-", transaction.TransactionNumber[:2])
		assert.Equal(t, models.TransactionStatusCompleted, transaction.Status)
		assert.False(t, transaction.TransactionDate.IsZero())
	})

	t.Run("honors an explicit status", func(t *testing.T) {
		transaction, err := svc.CreateTransaction(&CreateTransactionRequest{
			BranchID:        branch.ID,
			TransactionType: models.TransactionTypeAdjustment,
			Status:          models.TransactionStatusPending,
			Amount:          -50,
		})
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPending, transaction.Status)
	})
}

func TestUpdateTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db)
	branch := seedBranch(t, db)

	t.Run("pending transactions can be edited", func(t *testing.T) {
		transaction, err := svc.CreateTransaction(&CreateTransactionRequest{
			BranchID:        branch.ID,
			TransactionType: models.TransactionTypeSale,
			Status:          models.TransactionStatusPending,
			Amount:          700,
		})
		require.NoError(t, err)

		status := models.TransactionStatusCompleted
		updated, err := svc.UpdateTransaction(transaction.ID, &UpdateTransactionRequest{
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, updated.Status)
	})

	t.Run("completed transactions are frozen", func(t *testing.T) {
		transaction, err := svc.CreateTransaction(&CreateTransactionRequest{
			BranchID:        branch.ID,
			TransactionType: models.TransactionTypePayment,
			Amount:          300,
		})
		require.NoError(t, err)

		amount := 200.0
		_, err = svc.UpdateTransaction(transaction.ID, &UpdateTransactionRequest{Amount: &amount})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db)
	branch := seedBranch(t, db)

	t.Run("removes a pending transaction", func(t *testing.T) {
		transaction, err := svc.CreateTransaction(&CreateTransactionRequest{
			BranchID:        branch.ID,
			TransactionType: models.TransactionTypeRefund,
			Status:          models.TransactionStatusPending,
			Amount:          100,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteTransaction(transaction.ID))

		_, err = svc.GetTransaction(transaction.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("refuses a completed transaction", func(t *testing.T) {
		transaction, err := svc.CreateTransaction(&CreateTransactionRequest{
			BranchID:        branch.ID,
			TransactionType: models.TransactionTypeRedemption,
			Amount:          1050,
		})
		require.NoError(t, err)

		err = svc.DeleteTransaction(transaction.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	})
}

func TestGetTransactions(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db)
	branch := seedBranch(t, db)

	types := []models.TransactionType{
		models.TransactionTypePawn,
		models.TransactionTypePawn,
		models.TransactionTypeSale,
	}
	for _, transactionType := range types {
		_, err := svc.CreateTransaction(&CreateTransactionRequest{
			BranchID:        branch.ID,
			TransactionType: transactionType,
			Amount:          500,
		})
		require.NoError(t, err)
	}

	t.Run("filters by type", func(t *testing.T) {
		transactionType := models.TransactionTypePawn
		transactions, total, err := svc.GetTransactions(TransactionSearchParams{
			PaginationParams: testPagination(),
			TransactionType:  &transactionType,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, transactions, 2)
	})

	t.Run("filters by branch", func(t *testing.T) {
		other := seedBranch(t, db)
		_, total, err := svc.GetTransactions(TransactionSearchParams{
			PaginationParams: testPagination(),
			BranchID:         &other.ID,
		})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
