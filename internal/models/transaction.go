// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction records a monetary event at a branch. Append-only in spirit:
// updates and deletion are rejected once the transaction is completed or
// cancelled.
type Transaction struct {
	BaseModel
	TransactionNumber string            `json:"transaction_number" gorm:"uniqueIndex;size:20;not null"`
	BranchID          uuid.UUID         `json:"branch_id" gorm:"type:uuid;not null"`
	CustomerID        *uuid.UUID        `json:"customer_id" gorm:"type:uuid"`
	ProcessedByID     *uuid.UUID        `json:"processed_by_id" gorm:"type:uuid"`
	LoanID            *uuid.UUID        `json:"loan_id" gorm:"type:uuid"`
	ItemID            *uuid.UUID        `json:"item_id" gorm:"type:uuid"`
	PaymentID         *uuid.UUID        `json:"payment_id" gorm:"type:uuid"`
	TransactionType   TransactionType   `json:"transaction_type" gorm:"type:varchar(20);index;not null"`
	Status            TransactionStatus `json:"status" gorm:"type:varchar(20);default:'completed'"`
	Amount            float64           `json:"amount" gorm:"not null"`
	TransactionDate   time.Time         `json:"transaction_date"`
	Notes             string            `json:"notes" gorm:"type:text"`

	// Relationships
	Branch      *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	Customer    *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ProcessedBy *Employee `json:"processed_by,omitempty" gorm:"foreignKey:ProcessedByID"`
	Payment     *Payment  `json:"payment,omitempty" gorm:"foreignKey:PaymentID"`
}

func (t *Transaction) Editable() bool {
	return t.Status == TransactionStatusPending
}
