// internal/models/item.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a piece of collateral held at a branch. At most one active loan may
// reference an item; loan origination checks the status before pawning it.
type Item struct {
	BaseModel
	ItemCode           string       `json:"item_code" gorm:"uniqueIndex;size:20;not null"`
	Name               string       `json:"name" gorm:"index;size:255;not null"`
	Description        string       `json:"description" gorm:"type:text"`
	Category           ItemCategory `json:"category" gorm:"type:varchar(30);not null"`
	BranchID           uuid.UUID    `json:"branch_id" gorm:"type:uuid;not null"`
	Status             ItemStatus   `json:"status" gorm:"type:varchar(20);default:'pawned'"`
	Condition          string       `json:"condition" gorm:"size:100"`
	SerialNumber       string       `json:"serial_number" gorm:"size:100"`
	AppraisedValue     float64      `json:"appraised_value"`
	LoanValue          float64      `json:"loan_value"`
	SalePrice          *float64     `json:"sale_price"`
	AcquisitionDate    time.Time    `json:"acquisition_date"`
	RedemptionDeadline *time.Time   `json:"redemption_deadline"`
	SoldDate           *time.Time   `json:"sold_date"`
	StorageLocation    string       `json:"storage_location" gorm:"size:100"`
	Images             string       `json:"images" gorm:"type:text"`
	Notes              string       `json:"notes" gorm:"type:text"`
	AppraisedByID      *uuid.UUID   `json:"appraised_by_id" gorm:"type:uuid"`
	ApplicationID      *uuid.UUID   `json:"application_id" gorm:"type:uuid"`

	// Relationships
	Branch      *Branch      `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	AppraisedBy *Employee    `json:"appraised_by,omitempty" gorm:"foreignKey:AppraisedByID"`
	Application *Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	Loan        *Loan        `json:"loan,omitempty" gorm:"foreignKey:ItemID"`
}

// AvailableForLoan reports whether a new loan may be originated against the item.
func (i *Item) AvailableForLoan() bool {
	return i.Status == ItemStatusPawned || i.Status == ItemStatusForSale
}
