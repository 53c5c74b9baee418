// internal/services/inventory_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

type CreateItemRequest struct {
	Name            string              `json:"name" validate:"required"`
	Description     string              `json:"description,omitempty"`
	Category        models.ItemCategory `json:"category" validate:"required"`
	BranchID        uuid.UUID           `json:"branch_id" validate:"required"`
	Condition       string              `json:"condition,omitempty"`
	SerialNumber    string              `json:"serial_number,omitempty"`
	AppraisedValue  float64             `json:"appraised_value" validate:"required,gt=0"`
	LoanValue       float64             `json:"loan_value,omitempty"`
	AcquisitionDate *time.Time          `json:"acquisition_date,omitempty"`
	StorageLocation string              `json:"storage_location,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	AppraisedByID   *uuid.UUID          `json:"appraised_by_id,omitempty"`
	ApplicationID   *uuid.UUID          `json:"application_id,omitempty"`
}

type UpdateItemRequest struct {
	Name            *string              `json:"name,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Category        *models.ItemCategory `json:"category,omitempty"`
	BranchID        *uuid.UUID           `json:"branch_id,omitempty"`
	Status          *models.ItemStatus   `json:"status,omitempty"`
	Condition       *string              `json:"condition,omitempty"`
	SerialNumber    *string              `json:"serial_number,omitempty"`
	AppraisedValue  *float64             `json:"appraised_value,omitempty"`
	LoanValue       *float64             `json:"loan_value,omitempty"`
	SalePrice       *float64             `json:"sale_price,omitempty"`
	StorageLocation *string              `json:"storage_location,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
}

type ItemSearchParams struct {
	utils.PaginationParams
	Category  *models.ItemCategory `json:"category,omitempty"`
	Status    *models.ItemStatus   `json:"status,omitempty"`
	BranchID  *uuid.UUID           `json:"branch_id,omitempty"`
	MinValue  *float64             `json:"min_value,omitempty"`
	MaxValue  *float64             `json:"max_value,omitempty"`
}

type SellItemRequest struct {
	SalePrice float64    `json:"sale_price" validate:"required,gt=0"`
	SoldDate  *time.Time `json:"sold_date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

type InventoryStats struct {
	TotalItems          int64                            `json:"total_items"`
	ItemsByStatus       map[models.ItemStatus]int64      `json:"items_by_status"`
	ItemsByCategory     map[models.ItemCategory]int64    `json:"items_by_category"`
	TotalAppraisedValue float64                          `json:"total_appraised_value"`
	TotalSaleValue      float64                          `json:"total_sale_value"`
}

func (s *InventoryService) GetItems(params ItemSearchParams) ([]models.Item, int64, error) {
	query := s.db.Model(&models.Item{})

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(item_code) LIKE ? OR LOWER(serial_number) LIKE ?",
			term, term, term, term)
	}
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.MinValue != nil {
		query = query.Where("appraised_value >= ?", *params.MinValue)
	}
	if params.MaxValue != nil {
		query = query.Where("appraised_value <= ?", *params.MaxValue)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "appraised_value", "status", "category"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var items []models.Item
	if err := query.Preload("Branch").Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	return items, total, nil
}

func (s *InventoryService) GetItem(id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := s.db.Preload("Branch").Preload("AppraisedBy").Preload("Loan").
		Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Item")
		}
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) CreateItem(req *CreateItemRequest) (*models.Item, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid item: %v", err)
	}

	var branch models.Branch
	if err := s.db.Where("id = ?", req.BranchID).First(&branch).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Branch")
		}
		return nil, err
	}

	acquisitionDate := time.Now()
	if req.AcquisitionDate != nil {
		acquisitionDate = *req.AcquisitionDate
	}

	item := &models.Item{
		ItemCode:        utils.GenerateItemCode(),
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		BranchID:        req.BranchID,
		Status:          models.ItemStatusPawned,
		Condition:       req.Condition,
		SerialNumber:    req.SerialNumber,
		AppraisedValue:  req.AppraisedValue,
		LoanValue:       req.LoanValue,
		AcquisitionDate: acquisitionDate,
		StorageLocation: req.StorageLocation,
		Notes:           req.Notes,
		AppraisedByID:   req.AppraisedByID,
		ApplicationID:   req.ApplicationID,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) UpdateItem(id uuid.UUID, req *UpdateItemRequest) (*models.Item, error) {
	var item models.Item
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Item")
		}
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.BranchID != nil {
		item.BranchID = *req.BranchID
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Condition != nil {
		item.Condition = *req.Condition
	}
	if req.SerialNumber != nil {
		item.SerialNumber = *req.SerialNumber
	}
	if req.AppraisedValue != nil {
		item.AppraisedValue = *req.AppraisedValue
	}
	if req.LoanValue != nil {
		item.LoanValue = *req.LoanValue
	}
	if req.SalePrice != nil {
		item.SalePrice = req.SalePrice
	}
	if req.StorageLocation != nil {
		item.StorageLocation = *req.StorageLocation
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return &item, nil
}

// AppendItemImage records an uploaded image URL on the item, one per line.
func (s *InventoryService) AppendItemImage(id uuid.UUID, url string) (*models.Item, error) {
	var item models.Item
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Item")
		}
		return nil, err
	}

	if item.Images == "" {
		item.Images = url
	} else {
		item.Images = item.Images + "\n" + url
	}
	if err := s.db.Model(&item).Update("images", item.Images).Error; err != nil {
		return nil, fmt.Errorf("failed to update item images: %w", err)
	}
	return &item, nil
}

// DeleteItem removes an item. Items attached to a loan that is still in
// progress cannot be deleted.
func (s *InventoryService) DeleteItem(id uuid.UUID) error {
	var item models.Item
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Item")
		}
		return err
	}

	var openLoans int64
	inProgress := []models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}
	if err := s.db.Model(&models.Loan{}).
		Where("item_id = ? AND status IN ?", id, inProgress).
		Count(&openLoans).Error; err != nil {
		return err
	}
	if openLoans > 0 {
		return apperrors.Conflictf("cannot delete item attached to an open loan")
	}

	return s.db.Delete(&item).Error
}

// MarkForSale puts a defaulted item on the sales floor.
func (s *InventoryService) MarkForSale(id uuid.UUID, salePrice float64) (*models.Item, error) {
	if salePrice <= 0 {
		return nil, apperrors.Validationf("sale price must be positive")
	}

	var item models.Item
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Item")
		}
		return nil, err
	}

	if item.Status != models.ItemStatusDefaulted {
		return nil, apperrors.InvalidStatef("only defaulted items can be put up for sale, current status: %s", item.Status)
	}

	item.Status = models.ItemStatusForSale
	item.SalePrice = &salePrice
	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return &item, nil
}

// SellItem records the sale of a for-sale item.
func (s *InventoryService) SellItem(id uuid.UUID, req *SellItemRequest) (*models.Item, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid sale request: %v", err)
	}

	var sold *models.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Item")
			}
			return err
		}

		if item.Status != models.ItemStatusForSale {
			return apperrors.InvalidStatef("item is not for sale, current status: %s", item.Status)
		}

		soldDate := time.Now()
		if req.SoldDate != nil {
			soldDate = *req.SoldDate
		}

		item.Status = models.ItemStatusSold
		item.SalePrice = &req.SalePrice
		item.SoldDate = &soldDate
		if req.Notes != "" {
			item.Notes = appendNote(item.Notes,
				fmt.Sprintf("Sold on %s: %s", soldDate.Format("2006-01-02"), req.Notes))
		}
		if err := tx.Save(&item).Error; err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		sold = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sold, nil
}

func (s *InventoryService) GetInventoryStats(branchID *uuid.UUID) (*InventoryStats, error) {
	base := s.db.Model(&models.Item{})
	if branchID != nil {
		base = base.Where("branch_id = ?", *branchID)
	}

	stats := &InventoryStats{
		ItemsByStatus:   make(map[models.ItemStatus]int64),
		ItemsByCategory: make(map[models.ItemCategory]int64),
	}

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}

	statuses := []models.ItemStatus{
		models.ItemStatusPawned, models.ItemStatusRedeemed, models.ItemStatusDefaulted,
		models.ItemStatusForSale, models.ItemStatusSold, models.ItemStatusDamaged,
		models.ItemStatusLost,
	}
	for _, status := range statuses {
		var count int64
		if err := base.Session(&gorm.Session{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.ItemsByStatus[status] = count
	}

	categories := []models.ItemCategory{
		models.ItemCategoryJewelry, models.ItemCategoryElectronics, models.ItemCategoryWatches,
		models.ItemCategoryTools, models.ItemCategoryMusicalInstruments, models.ItemCategoryLuxuryItems,
		models.ItemCategoryFirearms, models.ItemCategoryCollectibles, models.ItemCategoryOther,
	}
	for _, category := range categories {
		var count int64
		if err := base.Session(&gorm.Session{}).Where("category = ?", category).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.ItemsByCategory[category] = count
	}

	base.Session(&gorm.Session{}).Select("COALESCE(SUM(appraised_value), 0)").Scan(&stats.TotalAppraisedValue)
	base.Session(&gorm.Session{}).Where("status = ?", models.ItemStatusForSale).
		Select("COALESCE(SUM(sale_price), 0)").Scan(&stats.TotalSaleValue)

	return stats, nil
}
