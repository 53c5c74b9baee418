// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Application is a loan request awaiting approval. Once processed (approved,
// rejected or cancelled) it is read-only and cannot be deleted.
type Application struct {
	BaseModel
	ApplicationNumber string            `json:"application_number" gorm:"uniqueIndex;size:30;not null"`
	CustomerID        uuid.UUID         `json:"customer_id" gorm:"type:uuid;not null"`
	BranchID          uuid.UUID         `json:"branch_id" gorm:"type:uuid;not null"`
	ItemCategory      ItemCategory      `json:"item_category" gorm:"type:varchar(30);not null"`
	ItemDescription   string            `json:"item_description" gorm:"type:text;not null"`
	EstimatedValue    float64           `json:"estimated_value" gorm:"not null"`
	LoanAmount        float64           `json:"loan_amount" gorm:"not null"`
	InterestRate      float64           `json:"interest_rate" gorm:"not null"`
	TermMonths        int               `json:"term_months" gorm:"not null"`
	Status            ApplicationStatus `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	Notes             string            `json:"notes" gorm:"type:text"`
	ProcessedByID     *uuid.UUID        `json:"processed_by_id" gorm:"type:uuid"`
	ProcessedAt       *time.Time        `json:"processed_at"`
	RejectionReason   string            `json:"rejection_reason" gorm:"type:text"`

	// Relationships
	Customer    *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Branch      *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	ProcessedBy *User     `json:"processed_by,omitempty" gorm:"foreignKey:ProcessedByID"`
	Loan        *Loan     `json:"loan,omitempty" gorm:"foreignKey:ApplicationID"`
}

func (a *Application) Processed() bool {
	return a.Status != ApplicationStatusPending
}
