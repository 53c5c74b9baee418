// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/pawnshop-backend/internal/config"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Branch{},
		&models.EmployeeType{},
		&models.Employee{},
		&models.Customer{},
		&models.Item{},
		&models.Loan{},
		&models.Payment{},
		&models.Transaction{},
		&models.Application{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Customer indexes
		"CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(last_name, first_name)",
		"CREATE INDEX IF NOT EXISTS idx_customers_active ON customers(is_active)",

		// Item indexes
		"CREATE INDEX IF NOT EXISTS idx_items_branch_status ON items(branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_items_category_status ON items(category, status)",

		// Loan indexes
		"CREATE INDEX IF NOT EXISTS idx_loans_customer ON loans(customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_loans_item ON loans(item_id)",
		"CREATE INDEX IF NOT EXISTS idx_loans_status_due ON loans(status, due_date)",
		"CREATE INDEX IF NOT EXISTS idx_loans_created_at ON loans(created_at DESC)",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_payments_loan_date ON payments(loan_id, payment_date DESC)",

		// Transaction indexes
		"CREATE INDEX IF NOT EXISTS idx_transactions_branch_date ON transactions(branch_id, transaction_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_type_status ON transactions(transaction_type, status)",

		// Application indexes
		"CREATE INDEX IF NOT EXISTS idx_applications_customer ON applications(customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_applications_branch_status ON applications(branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_created_at ON applications(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the built-in roles and a default admin account when
// the database is empty.
func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data...")

	roles := []models.Role{
		{Name: "admin", Description: "Administrator with full access"},
		{Name: "manager", Description: "Branch manager with branch-level access"},
		{Name: "staff", Description: "Counter staff with limited access"},
	}

	for i := range roles {
		var existing models.Role
		err := db.Where("name = ?", roles[i].Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&roles[i]).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roles[i].Name, err)
			}
		} else if err != nil {
			return err
		} else {
			roles[i] = existing
		}
	}

	var adminCount int64
	db.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", "admin").
		Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username:  "admin",
			Email:     "admin@pawnshop.local",
			FirstName: "System",
			LastName:  "Administrator",
			RoleID:    roles[0].ID,
			IsActive:  true,
		}
		if err := admin.SetPassword("ChangeMe123!"); err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		logrus.Warn("Default admin account created; change the password immediately")
	}

	var branchCount int64
	db.Model(&models.Branch{}).Count(&branchCount)
	if branchCount == 0 {
		branch := &models.Branch{
			Name:    "Main Branch",
			Address: "1 Main Street",
		}
		if err := db.Create(branch).Error; err != nil {
			return fmt.Errorf("failed to seed branch: %w", err)
		}
	}

	logrus.Info("Seeding completed")
	return nil
}
