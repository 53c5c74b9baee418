// internal/services/employee_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

// EmployeeService manages staff records, employee types and branches.
type EmployeeService struct {
	db *gorm.DB
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{db: db}
}

type CreateEmployeeRequest struct {
	UserID         uuid.UUID  `json:"user_id" validate:"required"`
	BranchID       uuid.UUID  `json:"branch_id" validate:"required"`
	EmployeeTypeID uuid.UUID  `json:"employee_type_id" validate:"required"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
}

type UpdateEmployeeRequest struct {
	BranchID       *uuid.UUID `json:"branch_id,omitempty"`
	EmployeeTypeID *uuid.UUID `json:"employee_type_id,omitempty"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
}

type CreateEmployeeTypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type CreateBranchRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Employees

func (s *EmployeeService) GetEmployees(params utils.PaginationParams, branchID *uuid.UUID) ([]models.Employee, int64, error) {
	query := s.db.Model(&models.Employee{})
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query = utils.ApplyPagination(query.Order("created_at DESC"), params)

	var employees []models.Employee
	err := query.Preload("User").Preload("Branch").Preload("EmployeeType").
		Find(&employees).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

func (s *EmployeeService) GetEmployee(id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.Preload("User").Preload("User.Role").Preload("Branch").Preload("EmployeeType").
		Where("id = ?", id).First(&employee).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Employee")
		}
		return nil, err
	}
	return &employee, nil
}

func (s *EmployeeService) CreateEmployee(req *CreateEmployeeRequest) (*models.Employee, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid employee: %v", err)
	}

	var user models.User
	if err := s.db.Where("id = ?", req.UserID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("User")
		}
		return nil, err
	}

	var existing int64
	s.db.Model(&models.Employee{}).Where("user_id = ?", req.UserID).Count(&existing)
	if existing > 0 {
		return nil, apperrors.Conflictf("an employee record already exists for this user")
	}

	hireDate := time.Now()
	if req.HireDate != nil {
		hireDate = *req.HireDate
	}

	employee := &models.Employee{
		UserID:         req.UserID,
		BranchID:       req.BranchID,
		EmployeeTypeID: req.EmployeeTypeID,
		HireDate:       hireDate,
	}
	if err := s.db.Create(employee).Error; err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return s.GetEmployee(employee.ID)
}

func (s *EmployeeService) UpdateEmployee(id uuid.UUID, req *UpdateEmployeeRequest) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.Where("id = ?", id).First(&employee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Employee")
		}
		return nil, err
	}

	if req.BranchID != nil {
		employee.BranchID = *req.BranchID
	}
	if req.EmployeeTypeID != nil {
		employee.EmployeeTypeID = *req.EmployeeTypeID
	}
	if req.HireDate != nil {
		employee.HireDate = *req.HireDate
	}

	if err := s.db.Save(&employee).Error; err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return s.GetEmployee(employee.ID)
}

func (s *EmployeeService) DeleteEmployee(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Employee")
	}
	return nil
}

// Employee types

func (s *EmployeeService) GetEmployeeTypes() ([]models.EmployeeType, error) {
	var types []models.EmployeeType
	if err := s.db.Order("name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list employee types: %w", err)
	}
	return types, nil
}

func (s *EmployeeService) CreateEmployeeType(req *CreateEmployeeTypeRequest) (*models.EmployeeType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid employee type: %v", err)
	}

	var count int64
	s.db.Model(&models.EmployeeType{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return nil, apperrors.Conflictf("an employee type named %q already exists", req.Name)
	}

	employeeType := &models.EmployeeType{Name: req.Name, Description: req.Description}
	if err := s.db.Create(employeeType).Error; err != nil {
		return nil, fmt.Errorf("failed to create employee type: %w", err)
	}
	return employeeType, nil
}

// DeleteEmployeeType removes a type that no employee holds.
func (s *EmployeeService) DeleteEmployeeType(id uuid.UUID) error {
	var employeeType models.EmployeeType
	if err := s.db.Where("id = ?", id).First(&employeeType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("EmployeeType")
		}
		return err
	}

	var inUse int64
	if err := s.db.Model(&models.Employee{}).Where("employee_type_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return apperrors.Conflictf("cannot delete employee type assigned to %d employee(s)", inUse)
	}

	return s.db.Delete(&employeeType).Error
}

// Branches

func (s *EmployeeService) GetBranches() ([]models.Branch, error) {
	var branches []models.Branch
	if err := s.db.Order("name").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

func (s *EmployeeService) GetBranch(id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := s.db.Where("id = ?", id).First(&branch).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Branch")
		}
		return nil, err
	}
	return &branch, nil
}

func (s *EmployeeService) CreateBranch(req *CreateBranchRequest) (*models.Branch, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("invalid branch: %v", err)
	}

	branch := &models.Branch{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := s.db.Create(branch).Error; err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return branch, nil
}

func (s *EmployeeService) UpdateBranch(id uuid.UUID, req *UpdateBranchRequest) (*models.Branch, error) {
	var branch models.Branch
	if err := s.db.Where("id = ?", id).First(&branch).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Branch")
		}
		return nil, err
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.Email != nil {
		branch.Email = *req.Email
	}

	if err := s.db.Save(&branch).Error; err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return &branch, nil
}

// DeleteBranch removes a branch with no employees or inventory.
func (s *EmployeeService) DeleteBranch(id uuid.UUID) error {
	var branch models.Branch
	if err := s.db.Where("id = ?", id).First(&branch).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Branch")
		}
		return err
	}

	var employees, items int64
	s.db.Model(&models.Employee{}).Where("branch_id = ?", id).Count(&employees)
	s.db.Model(&models.Item{}).Where("branch_id = ?", id).Count(&items)
	if employees > 0 || items > 0 {
		return apperrors.Conflictf("cannot delete branch with %d employee(s) and %d item(s)", employees, items)
	}

	return s.db.Delete(&branch).Error
}
