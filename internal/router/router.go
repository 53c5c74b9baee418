// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/pawnshop-backend/internal/config"
	"github.com/javajoker/pawnshop-backend/internal/handlers"
	"github.com/javajoker/pawnshop-backend/internal/middleware"
	"github.com/javajoker/pawnshop-backend/internal/permissions"
	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	customerService := services.NewCustomerService(db)
	inventoryService := services.NewInventoryService(db)
	loanService := services.NewLoanService(db)
	paymentService := services.NewPaymentService(db)
	cardPaymentService := services.NewCardPaymentService(db, cfg, loanService)
	applicationService := services.NewApplicationService(db)
	transactionService := services.NewTransactionService(db)
	userService := services.NewUserService(db)
	employeeService := services.NewEmployeeService(db)
	reportService := services.NewReportService(db, loanService, inventoryService, applicationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, storageService)
	loanHandler := handlers.NewLoanHandler(loanService, paymentService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cardPaymentService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	userHandler := handlers.NewUserHandler(userService)
	organizationHandler := handlers.NewOrganizationHandler(employeeService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	authRequired := middleware.AuthRequired(db)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.GetProfile)
		}

		// Customer routes
		customers := v1.Group("/customers")
		customers.Use(authRequired)
		{
			customers.GET("", middleware.RequirePermissions(permissions.ViewCustomers), customerHandler.GetCustomers)
			customers.GET("/export", middleware.RequirePermissions(permissions.ViewCustomers), customerHandler.ExportCustomers)
			customers.GET("/:id", middleware.RequirePermissions(permissions.ViewCustomers), customerHandler.GetCustomer)
			customers.GET("/:id/stats", middleware.RequirePermissions(permissions.ViewCustomers), customerHandler.GetCustomerStats)
			customers.POST("", middleware.RequirePermissions(permissions.ManageCustomers), customerHandler.CreateCustomer)
			customers.PUT("/:id", middleware.RequirePermissions(permissions.ManageCustomers), customerHandler.UpdateCustomer)
			customers.DELETE("/:id", middleware.RequirePermissions(permissions.ManageCustomers), customerHandler.DeactivateCustomer)
		}

		// Inventory routes
		inventory := v1.Group("/inventory")
		inventory.Use(authRequired)
		{
			inventory.GET("", middleware.RequirePermissions(permissions.ViewInventory), inventoryHandler.GetItems)
			inventory.GET("/stats", middleware.RequirePermissions(permissions.ViewInventory), inventoryHandler.GetInventoryStats)
			inventory.GET("/:id", middleware.RequirePermissions(permissions.ViewInventory), inventoryHandler.GetItem)
			inventory.POST("", middleware.RequirePermissions(permissions.ManageInventory), inventoryHandler.CreateItem)
			inventory.PUT("/:id", middleware.RequirePermissions(permissions.ManageInventory), inventoryHandler.UpdateItem)
			inventory.DELETE("/:id", middleware.RequirePermissions(permissions.ManageInventory), inventoryHandler.DeleteItem)
			inventory.POST("/:id/mark-for-sale", middleware.RequirePermissions(permissions.ManageInventory), inventoryHandler.MarkForSale)
			inventory.POST("/:id/sell", middleware.RequirePermissions(permissions.ManageInventory), inventoryHandler.SellItem)
			inventory.POST("/:id/images", middleware.RequirePermissions(permissions.ManageInventory),
				middleware.UploadRateLimit(), inventoryHandler.UploadItemImage)
		}

		// Loan routes
		loans := v1.Group("/loans")
		loans.Use(authRequired)
		{
			loans.GET("", middleware.RequirePermissions(permissions.ViewLoans), loanHandler.GetLoans)
			loans.POST("/search", middleware.RequirePermissions(permissions.ViewLoans), loanHandler.SearchLoans)
			loans.GET("/stats/overview", middleware.RequirePermissions(permissions.ViewLoans), loanHandler.GetLoanStats)
			loans.GET("/:id", middleware.RequirePermissions(permissions.ViewLoans), loanHandler.GetLoan)
			loans.GET("/:id/payments", middleware.RequirePermissions(permissions.ViewLoans), loanHandler.GetLoanPayments)

			loans.POST("", middleware.RequirePermissions(permissions.CreateLoans), loanHandler.CreateLoan)
			loans.POST("/:id/payments", middleware.RequirePermissions(permissions.CreateLoans), loanHandler.AddPayment)

			loans.PUT("/:id", middleware.RequirePermissions(permissions.ApproveLoans), loanHandler.UpdateLoan)
			loans.POST("/:id/extend", middleware.RequirePermissions(permissions.ApproveLoans), loanHandler.ExtendLoan)
			loans.POST("/:id/redeem", middleware.RequirePermissions(permissions.ApproveLoans), loanHandler.RedeemLoan)
			loans.POST("/:id/default", middleware.RequirePermissions(permissions.ApproveLoans), loanHandler.DefaultLoan)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(authRequired)
		{
			payments.GET("", middleware.RequirePermissions(permissions.ViewTransactions), paymentHandler.GetPayments)
			payments.GET("/:id", middleware.RequirePermissions(permissions.ViewTransactions), paymentHandler.GetPayment)
			payments.PUT("/:id", middleware.RequirePermissions(permissions.ManageTransactions), paymentHandler.UpdatePayment)
			payments.DELETE("/:id", middleware.RequirePermissions(permissions.ManageTransactions), paymentHandler.DeletePayment)

			payments.POST("/card-intent", middleware.RequirePermissions(permissions.ManageTransactions), paymentHandler.CreateCardIntent)
			payments.POST("/card-confirm", middleware.RequirePermissions(permissions.ManageTransactions), paymentHandler.ConfirmCardPayment)
			payments.POST("/card-refund", middleware.RequirePermissions(permissions.ManageTransactions), paymentHandler.RefundCardPayment)
		}

		// Application routes
		applications := v1.Group("/applications")
		applications.Use(authRequired)
		{
			applications.GET("", middleware.RequirePermissions(permissions.ViewLoans), applicationHandler.GetApplications)
			applications.GET("/stats", middleware.RequirePermissions(permissions.ViewLoans), applicationHandler.GetApplicationStats)
			applications.GET("/trends", middleware.RequirePermissions(permissions.ViewLoans), applicationHandler.GetApplicationTrends)
			applications.GET("/export", middleware.RequirePermissions(permissions.ViewLoans), applicationHandler.ExportApplications)
			applications.GET("/:id", middleware.RequirePermissions(permissions.ViewLoans), applicationHandler.GetApplication)

			applications.POST("", middleware.RequirePermissions(permissions.CreateLoans), applicationHandler.CreateApplication)
			applications.PUT("/:id", middleware.RequirePermissions(permissions.CreateLoans), applicationHandler.UpdateApplication)

			applications.POST("/:id/process", middleware.RequirePermissions(permissions.ApproveLoans), applicationHandler.ProcessApplication)
			applications.POST("/bulk-update", middleware.RequirePermissions(permissions.ApproveLoans), applicationHandler.BulkUpdateApplications)

			applications.DELETE("/:id", middleware.RequirePermissions(permissions.ManageLoans), applicationHandler.DeleteApplication)
			applications.POST("/bulk-delete", middleware.RequirePermissions(permissions.ManageLoans), applicationHandler.BulkDeleteApplications)
		}

		// Transaction routes
		transactions := v1.Group("/transactions")
		transactions.Use(authRequired)
		{
			transactions.GET("", middleware.RequirePermissions(permissions.ViewTransactions), transactionHandler.GetTransactions)
			transactions.GET("/:id", middleware.RequirePermissions(permissions.ViewTransactions), transactionHandler.GetTransaction)
			transactions.POST("", middleware.RequirePermissions(permissions.ManageTransactions), transactionHandler.CreateTransaction)
			transactions.PUT("/:id", middleware.RequirePermissions(permissions.ManageTransactions), transactionHandler.UpdateTransaction)
			transactions.DELETE("/:id", middleware.RequirePermissions(permissions.ManageTransactions), transactionHandler.DeleteTransaction)
		}

		// User management routes
		users := v1.Group("/users")
		users.Use(authRequired)
		{
			users.GET("", middleware.RequirePermissions(permissions.ViewUsers), userHandler.GetUsers)
			users.GET("/:id", middleware.RequirePermissions(permissions.ViewUsers), userHandler.GetUser)
			users.POST("", middleware.RequirePermissions(permissions.ManageUsers), userHandler.CreateUser)
			users.PUT("/:id", middleware.RequirePermissions(permissions.ManageUsers), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequirePermissions(permissions.ManageUsers), userHandler.DeactivateUser)
		}

		roles := v1.Group("/roles")
		roles.Use(authRequired)
		{
			roles.GET("", middleware.RequirePermissions(permissions.ViewUsers), userHandler.GetRoles)
			roles.POST("", middleware.RequirePermissions(permissions.ManageUsers), userHandler.CreateRole)
			roles.DELETE("/:id", middleware.RequirePermissions(permissions.ManageUsers), userHandler.DeleteRole)
		}

		// Branch routes
		branches := v1.Group("/branches")
		branches.Use(authRequired)
		{
			branches.GET("", middleware.RequirePermissions(permissions.ViewBranches), organizationHandler.GetBranches)
			branches.GET("/:id", middleware.RequirePermissions(permissions.ViewBranches), organizationHandler.GetBranch)
			branches.POST("", middleware.RequirePermissions(permissions.ManageBranches), organizationHandler.CreateBranch)
			branches.PUT("/:id", middleware.RequirePermissions(permissions.ManageBranches), organizationHandler.UpdateBranch)
			branches.DELETE("/:id", middleware.RequirePermissions(permissions.ManageBranches), organizationHandler.DeleteBranch)
		}

		// Employee routes
		employees := v1.Group("/employees")
		employees.Use(authRequired)
		{
			employees.GET("", middleware.RequirePermissions(permissions.ViewUsers), organizationHandler.GetEmployees)
			employees.GET("/:id", middleware.RequirePermissions(permissions.ViewUsers), organizationHandler.GetEmployee)
			employees.POST("", middleware.RequirePermissions(permissions.ManageUsers), organizationHandler.CreateEmployee)
			employees.PUT("/:id", middleware.RequirePermissions(permissions.ManageUsers), organizationHandler.UpdateEmployee)
			employees.DELETE("/:id", middleware.RequirePermissions(permissions.ManageUsers), organizationHandler.DeleteEmployee)
		}

		employeeTypes := v1.Group("/employee-types")
		employeeTypes.Use(authRequired)
		{
			employeeTypes.GET("", middleware.RequirePermissions(permissions.ViewUsers), organizationHandler.GetEmployeeTypes)
			employeeTypes.POST("", middleware.RequirePermissions(permissions.ManageUsers), organizationHandler.CreateEmployeeType)
			employeeTypes.DELETE("/:id", middleware.RequirePermissions(permissions.ManageUsers), organizationHandler.DeleteEmployeeType)
		}

		// Report routes
		reports := v1.Group("/reports")
		reports.Use(authRequired, middleware.RequirePermissions(permissions.ViewReports))
		{
			reports.GET("/dashboard", reportHandler.GetDashboardOverview)
			reports.GET("/revenue", reportHandler.GetRevenueSeries)
			reports.GET("/loans", reportHandler.GetLoanReport)
			reports.GET("/loans/export", reportHandler.ExportLoans)
			reports.GET("/inventory", reportHandler.GetInventoryReport)
			reports.GET("/customers", reportHandler.GetCustomerReport)
		}
	}

	return r
}
