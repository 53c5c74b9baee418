// internal/services/application_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func validApplicationRequest(customer *models.Customer, branch *models.Branch) *CreateApplicationRequest {
	return &CreateApplicationRequest{
		CustomerID:      customer.ID,
		BranchID:        branch.ID,
		ItemCategory:    models.ItemCategoryJewelry,
		ItemDescription: "14k gold necklace",
		EstimatedValue:  1200,
		LoanAmount:      1000,
		InterestRate:    5,
		TermMonths:      3,
	}
}

func TestCreateApplication(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	t.Run("creates a pending application", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		assert.Equal(t, models.ApplicationStatusPending, application.Status)
		assert.Contains(t, application.ApplicationNumber, "APP-")
		assert.Nil(t, application.ProcessedByID)
		assert.Nil(t, application.ProcessedAt)
	})

	t.Run("loan amount cannot exceed the estimated value", func(t *testing.T) {
		req := validApplicationRequest(customer, branch)
		req.EstimatedValue = 800
		req.LoanAmount = 1000

		_, err := svc.CreateApplication(req)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "estimated value")
	})

	t.Run("loan amount equal to the estimated value is allowed", func(t *testing.T) {
		req := validApplicationRequest(customer, branch)
		req.EstimatedValue = 1000
		req.LoanAmount = 1000

		_, err := svc.CreateApplication(req)
		require.NoError(t, err)
	})
}

func TestProcessApplication(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)
	processor := uuid.New()

	t.Run("approval stamps the processor and timestamp", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		processed, err := svc.ProcessApplication(application.ID, processor, &ProcessApplicationRequest{
			Status: models.ApplicationStatusApproved,
		})
		require.NoError(t, err)

		assert.Equal(t, models.ApplicationStatusApproved, processed.Status)
		require.NotNil(t, processed.ProcessedByID)
		assert.Equal(t, processor, *processed.ProcessedByID)
		assert.NotNil(t, processed.ProcessedAt)
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		_, err = svc.ProcessApplication(application.ID, processor, &ProcessApplicationRequest{
			Status: models.ApplicationStatusRejected,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		processed, err := svc.ProcessApplication(application.ID, processor, &ProcessApplicationRequest{
			Status:          models.ApplicationStatusRejected,
			RejectionReason: "insufficient collateral value",
		})
		require.NoError(t, err)
		assert.Equal(t, "insufficient collateral value", processed.RejectionReason)
	})

	t.Run("a processed application cannot be processed again", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		_, err = svc.ProcessApplication(application.ID, processor, &ProcessApplicationRequest{
			Status: models.ApplicationStatusApproved,
		})
		require.NoError(t, err)

		_, err = svc.ProcessApplication(application.ID, processor, &ProcessApplicationRequest{
			Status: models.ApplicationStatusCancelled,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	})

	t.Run("pending is not a valid target status", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		_, err = svc.ProcessApplication(application.ID, processor, &ProcessApplicationRequest{
			Status: models.ApplicationStatusPending,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestUpdateApplication(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	t.Run("updates a pending application", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		amount := 900.0
		updated, err := svc.UpdateApplication(application.ID, &UpdateApplicationRequest{
			LoanAmount: &amount,
		})
		require.NoError(t, err)
		assert.Equal(t, 900.0, updated.LoanAmount)
	})

	t.Run("keeps the amount invariant on update", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		amount := 5000.0
		_, err = svc.UpdateApplication(application.ID, &UpdateApplicationRequest{
			LoanAmount: &amount,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("refuses processed applications", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)
		_, err = svc.ProcessApplication(application.ID, uuid.New(), &ProcessApplicationRequest{
			Status: models.ApplicationStatusApproved,
		})
		require.NoError(t, err)

		notes := "late edit"
		_, err = svc.UpdateApplication(application.ID, &UpdateApplicationRequest{Notes: &notes})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	})
}

func TestDeleteApplications(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	t.Run("deletes a pending application", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteApplication(application.ID))

		_, err = svc.GetApplication(application.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("refuses processed applications", func(t *testing.T) {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)
		_, err = svc.ProcessApplication(application.ID, uuid.New(), &ProcessApplicationRequest{
			Status: models.ApplicationStatusCancelled,
		})
		require.NoError(t, err)

		err = svc.DeleteApplication(application.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("bulk delete fails the whole batch on a processed row", func(t *testing.T) {
		pending, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)
		processed, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)
		_, err = svc.ProcessApplication(processed.ID, uuid.New(), &ProcessApplicationRequest{
			Status: models.ApplicationStatusApproved,
		})
		require.NoError(t, err)

		deleted, err := svc.BulkDeleteApplications([]uuid.UUID{pending.ID, processed.ID})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		assert.Zero(t, deleted)

		_, err = svc.GetApplication(pending.ID)
		assert.NoError(t, err)
	})
}

func TestBulkUpdateApplications(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)
	processor := uuid.New()

	first, err := svc.CreateApplication(validApplicationRequest(customer, branch))
	require.NoError(t, err)
	second, err := svc.CreateApplication(validApplicationRequest(customer, branch))
	require.NoError(t, err)
	_, err = svc.ProcessApplication(second.ID, processor, &ProcessApplicationRequest{
		Status: models.ApplicationStatusApproved,
	})
	require.NoError(t, err)

	t.Run("only pending rows are touched", func(t *testing.T) {
		affected, err := svc.BulkUpdateApplications(processor, &BulkUpdateApplicationsRequest{
			IDs:    []uuid.UUID{first.ID, second.ID},
			Status: models.ApplicationStatusCancelled,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)

		reloaded, err := svc.GetApplication(second.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusApproved, reloaded.Status)
	})

	t.Run("bulk reject requires a reason", func(t *testing.T) {
		pending, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		affected, err := svc.BulkUpdateApplications(processor, &BulkUpdateApplicationsRequest{
			IDs:    []uuid.UUID{pending.ID},
			Status: models.ApplicationStatusRejected,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Zero(t, affected)

		reloaded, err := svc.GetApplication(pending.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusPending, reloaded.Status)
	})

	t.Run("bulk reject persists the reason", func(t *testing.T) {
		pending, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)

		affected, err := svc.BulkUpdateApplications(processor, &BulkUpdateApplicationsRequest{
			IDs:             []uuid.UUID{pending.ID},
			Status:          models.ApplicationStatusRejected,
			RejectionReason: "appraisal came in low",
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)

		reloaded, err := svc.GetApplication(pending.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusRejected, reloaded.Status)
		assert.Equal(t, "appraisal came in low", reloaded.RejectionReason)
	})
}

func TestApplicationStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)
	processor := uuid.New()

	statuses := []models.ApplicationStatus{
		models.ApplicationStatusApproved,
		models.ApplicationStatusApproved,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
	}
	for _, status := range statuses {
		application, err := svc.CreateApplication(validApplicationRequest(customer, branch))
		require.NoError(t, err)
		req := &ProcessApplicationRequest{Status: status}
		if status == models.ApplicationStatusRejected {
			req.RejectionReason = "value too low"
		}
		_, err = svc.ProcessApplication(application.ID, processor, req)
		require.NoError(t, err)
	}
	_, err := svc.CreateApplication(validApplicationRequest(customer, branch))
	require.NoError(t, err)

	stats, err := svc.GetApplicationStats(nil, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 5, stats.Total)
	assert.EqualValues(t, 3, stats.ByStatus[models.ApplicationStatusApproved])
	assert.EqualValues(t, 1, stats.ByStatus[models.ApplicationStatusPending])
	assert.InDelta(t, 75.0, stats.ApprovalRate, 0.01) // 3 approved of 4 decided
	assert.Equal(t, 1000.0, stats.AvgLoanAmount)
}

func TestExportApplications(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	_, err := svc.CreateApplication(validApplicationRequest(customer, branch))
	require.NoError(t, err)

	data, err := svc.ExportApplications(ApplicationSearchParams{PaginationParams: testPagination()}, "csv")
	require.NoError(t, err)

	csv := string(data)
	assert.Contains(t, csv, "application_number")
	assert.Contains(t, csv, "14k gold necklace")

	data, err = svc.ExportApplications(ApplicationSearchParams{PaginationParams: testPagination()}, "json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"14k gold necklace"`)

	_, err = svc.ExportApplications(ApplicationSearchParams{PaginationParams: testPagination()}, "xml")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
