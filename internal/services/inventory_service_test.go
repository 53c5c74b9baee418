// internal/services/inventory_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func TestCreateItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	branch := seedBranch(t, db)

	t.Run("creates a pawned item with a generated code", func(t *testing.T) {
		item, err := svc.CreateItem(&CreateItemRequest{
			Name:           "Vintage Watch",
			Category:       models.ItemCategoryWatches,
			BranchID:       branch.ID,
			AppraisedValue: 2500,
		})
		require.NoError(t, err)

		assert.Equal(t, "I-", item.ItemCode[:2])
		assert.Equal(t, models.ItemStatusPawned, item.Status)
	})

	t.Run("unknown branch is a not found error", func(t *testing.T) {
		other := seedBranch(t, db)
		require.NoError(t, db.Delete(other).Error)

		_, err := svc.CreateItem(&CreateItemRequest{
			Name:           "Orphan Item",
			Category:       models.ItemCategoryElectronics,
			BranchID:       other.ID,
			AppraisedValue: 100,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestMarkForSale(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	branch := seedBranch(t, db)

	t.Run("defaulted items go on the sales floor", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusDefaulted)

		updated, err := svc.MarkForSale(item.ID, 800)
		require.NoError(t, err)

		assert.Equal(t, models.ItemStatusForSale, updated.Status)
		require.NotNil(t, updated.SalePrice)
		assert.Equal(t, 800.0, *updated.SalePrice)
	})

	t.Run("pawned items cannot be listed", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusPawned)

		_, err := svc.MarkForSale(item.ID, 800)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusDefaulted)

		_, err := svc.MarkForSale(item.ID, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestSellItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	branch := seedBranch(t, db)

	t.Run("records the sale", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusForSale)

		sold, err := svc.SellItem(item.ID, &SellItemRequest{
			SalePrice: 950,
			Notes:     "cash sale",
		})
		require.NoError(t, err)

		assert.Equal(t, models.ItemStatusSold, sold.Status)
		require.NotNil(t, sold.SoldDate)
		assert.Contains(t, sold.Notes, "cash sale")
	})

	t.Run("only for-sale items can be sold", func(t *testing.T) {
		for _, status := range []models.ItemStatus{
			models.ItemStatusPawned, models.ItemStatusRedeemed, models.ItemStatusSold,
		} {
			item := seedItem(t, db, branch, status)

			_, err := svc.SellItem(item.ID, &SellItemRequest{SalePrice: 950})
			require.Error(t, err, "status %s", status)
			assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
		}
	})
}

func TestDeleteItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	branch := seedBranch(t, db)
	customer := seedCustomer(t, db)

	t.Run("deletes an unattached item", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusRedeemed)

		require.NoError(t, svc.DeleteItem(item.ID))

		_, err := svc.GetItem(item.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("an open loan blocks deletion", func(t *testing.T) {
		item := seedItem(t, db, branch, models.ItemStatusPawned)
		seedLoan(t, db, customer, item, 500, 10, 30, models.LoanStatusActive)

		err := svc.DeleteItem(item.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestAppendItemImage(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	branch := seedBranch(t, db)

	item := seedItem(t, db, branch, models.ItemStatusPawned)

	updated, err := svc.AppendItemImage(item.ID, "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", updated.Images)

	updated, err = svc.AppendItemImage(item.ID, "https://cdn.example.com/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg\nhttps://cdn.example.com/b.jpg", updated.Images)
}

func TestInventoryStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	branch := seedBranch(t, db)

	seedItem(t, db, branch, models.ItemStatusPawned)
	seedItem(t, db, branch, models.ItemStatusPawned)
	seedItem(t, db, branch, models.ItemStatusForSale)

	stats, err := svc.GetInventoryStats(nil)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalItems)
	assert.EqualValues(t, 2, stats.ItemsByStatus[models.ItemStatusPawned])
	assert.EqualValues(t, 1, stats.ItemsByStatus[models.ItemStatusForSale])
	assert.EqualValues(t, 3, stats.ItemsByCategory[models.ItemCategoryJewelry])
	assert.Equal(t, 4500.0, stats.TotalAppraisedValue)

	t.Run("scoped to a branch", func(t *testing.T) {
		other := seedBranch(t, db)
		scoped, err := svc.GetInventoryStats(&other.ID)
		require.NoError(t, err)
		assert.Zero(t, scoped.TotalItems)
	})
}
