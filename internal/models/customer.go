// internal/models/customer.go
package models

import "time"

type Customer struct {
	BaseModel
	CustomerCode string     `json:"customer_code" gorm:"uniqueIndex;size:20;not null"`
	FirstName    string     `json:"first_name" gorm:"size:100;not null"`
	LastName     string     `json:"last_name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"index;size:255"`
	Phone        string     `json:"phone" gorm:"size:30"`
	Address      string     `json:"address" gorm:"size:255"`
	City         string     `json:"city" gorm:"size:100"`
	State        string     `json:"state" gorm:"size:100"`
	Country      string     `json:"country" gorm:"size:100"`
	ZipCode      string     `json:"zip_code" gorm:"size:20"`
	IDType       string     `json:"id_type" gorm:"size:50"`
	IDNumber     string     `json:"id_number" gorm:"size:50"`
	IDExpiry     *time.Time `json:"id_expiry"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	CreditScore  *int       `json:"credit_score"`
	Notes        string     `json:"notes" gorm:"type:text"`

	// Relationships
	Loans        []Loan        `json:"loans,omitempty" gorm:"foreignKey:CustomerID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:CustomerID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:CustomerID"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
