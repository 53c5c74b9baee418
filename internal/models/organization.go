// internal/models/organization.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Branch struct {
	BaseModel
	Name    string `json:"name" gorm:"size:100;not null"`
	Address string `json:"address" gorm:"size:255"`
	Phone   string `json:"phone" gorm:"size:30"`
	Email   string `json:"email" gorm:"size:255"`

	// Relationships
	Employees    []Employee    `json:"employees,omitempty" gorm:"foreignKey:BranchID"`
	Inventory    []Item        `json:"inventory,omitempty" gorm:"foreignKey:BranchID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:BranchID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:BranchID"`
}

type EmployeeType struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Description string `json:"description" gorm:"size:255"`

	Employees []Employee `json:"employees,omitempty" gorm:"foreignKey:EmployeeTypeID"`
}

type Employee struct {
	BaseModel
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	BranchID       uuid.UUID `json:"branch_id" gorm:"type:uuid;not null"`
	EmployeeTypeID uuid.UUID `json:"employee_type_id" gorm:"type:uuid;not null"`
	HireDate       time.Time `json:"hire_date"`

	// Relationships
	User         *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Branch       *Branch       `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	EmployeeType *EmployeeType `json:"employee_type,omitempty" gorm:"foreignKey:EmployeeTypeID"`
}
