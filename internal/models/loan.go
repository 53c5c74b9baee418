// internal/models/loan.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Loan is the financial contract against a single collateral item.
//
// InterestRate is a flat monthly percentage; the interest amount is
// loan_amount * rate / 100 regardless of the elapsed term. The derived fields
// (remaining balance, overdue flags) are computed per request, never stored.
type Loan struct {
	BaseModel
	LoanCode        string     `json:"loan_code" gorm:"uniqueIndex;size:20;not null"`
	CustomerID      uuid.UUID  `json:"customer_id" gorm:"type:uuid;not null"`
	ItemID          uuid.UUID  `json:"item_id" gorm:"type:uuid;not null"`
	ApplicationID   *uuid.UUID `json:"application_id" gorm:"type:uuid"`
	LoanAmount      float64    `json:"loan_amount" gorm:"not null"`
	InterestRate    float64    `json:"interest_rate" gorm:"not null"`
	TermDays        int        `json:"term_days" gorm:"not null"`
	StartDate       time.Time  `json:"start_date"`
	DueDate         time.Time  `json:"due_date"`
	ExtendedDueDate *time.Time `json:"extended_due_date"`
	Status          LoanStatus `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	ActualEndDate   *time.Time `json:"actual_end_date"`
	TotalPaid       float64    `json:"total_paid" gorm:"default:0"`
	ExtensionCount  int        `json:"extension_count" gorm:"default:0"`
	Notes           string     `json:"notes" gorm:"type:text"`

	// Computed per request, see services.ComputeLoanDetails.
	RemainingBalance float64 `json:"remaining_balance" gorm:"-"`
	IsOverdue        bool    `json:"is_overdue" gorm:"-"`
	DaysRemaining    int     `json:"days_remaining" gorm:"-"`
	DaysOverdue      int     `json:"days_overdue" gorm:"-"`

	// Relationships
	Customer    *Customer    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Item        *Item        `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Application *Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	Payments    []Payment    `json:"payments,omitempty" gorm:"foreignKey:LoanID"`
}

type Payment struct {
	BaseModel
	PaymentNumber   string        `json:"payment_number" gorm:"uniqueIndex;size:20;not null"`
	LoanID          uuid.UUID     `json:"loan_id" gorm:"type:uuid;not null;index"`
	Amount          float64       `json:"amount" gorm:"not null"`
	PaymentDate     time.Time     `json:"payment_date"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"type:varchar(20);not null"`
	ReferenceNumber string        `json:"reference_number" gorm:"size:100"`
	Notes           string        `json:"notes" gorm:"type:text"`

	// Relationships
	Loan        *Loan        `json:"loan,omitempty" gorm:"foreignKey:LoanID"`
	Transaction *Transaction `json:"transaction,omitempty" gorm:"foreignKey:PaymentID"`
}
