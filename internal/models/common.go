// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the primary key in the application so the same models
// work against postgres and the in-memory sqlite databases used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type ItemCategory string

const (
	ItemCategoryJewelry            ItemCategory = "jewelry"
	ItemCategoryElectronics        ItemCategory = "electronics"
	ItemCategoryMusicalInstruments ItemCategory = "musical_instruments"
	ItemCategoryTools              ItemCategory = "tools"
	ItemCategoryWatches            ItemCategory = "watches"
	ItemCategoryFirearms           ItemCategory = "firearms"
	ItemCategoryCollectibles       ItemCategory = "collectibles"
	ItemCategoryLuxuryItems        ItemCategory = "luxury_items"
	ItemCategoryOther              ItemCategory = "other"
)

type ItemStatus string

const (
	ItemStatusPawned    ItemStatus = "pawned"
	ItemStatusRedeemed  ItemStatus = "redeemed"
	ItemStatusDefaulted ItemStatus = "defaulted"
	ItemStatusForSale   ItemStatus = "for_sale"
	ItemStatusSold      ItemStatus = "sold"
	ItemStatusDamaged   ItemStatus = "damaged"
	ItemStatusLost      ItemStatus = "lost"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusOverdue   LoanStatus = "overdue"
	LoanStatusExtended  LoanStatus = "extended"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
	LoanStatusCancelled LoanStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodDebitCard     PaymentMethod = "debit_card"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodMobilePayment PaymentMethod = "mobile_payment"
	PaymentMethodCheck         PaymentMethod = "check"
	PaymentMethodOther         PaymentMethod = "other"
)

type TransactionType string

const (
	TransactionTypePawn       TransactionType = "pawn"
	TransactionTypeRedemption TransactionType = "redemption"
	TransactionTypeSale       TransactionType = "sale"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeExtension  TransactionType = "extension"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCancelled ApplicationStatus = "cancelled"
)
