// internal/handlers/loans_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/pawnshop-backend/internal/middleware"
	"github.com/javajoker/pawnshop-backend/internal/models"
	"github.com/javajoker/pawnshop-backend/internal/permissions"
	"github.com/javajoker/pawnshop-backend/internal/services"
	"github.com/javajoker/pawnshop-backend/internal/utils"
)

type LoanRoutesTestSuite struct {
	suite.Suite
	db           *gorm.DB
	router       *gin.Engine
	branch       *models.Branch
	customer     *models.Customer
	adminToken   string
	staffToken   string
	itemSequence int
}

func (suite *LoanRoutesTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.Branch{},
		&models.Customer{}, &models.Item{}, &models.Loan{}, &models.Payment{},
	))
	suite.db = db

	suite.branch = &models.Branch{Name: "Main Branch"}
	suite.Require().NoError(db.Create(suite.branch).Error)
	suite.customer = &models.Customer{
		CustomerCode: utils.GenerateCustomerCode(),
		FirstName:    "Jamie",
		LastName:     "Rivera",
		Phone:        "555-0100",
		IsActive:     true,
	}
	suite.Require().NoError(db.Create(suite.customer).Error)

	suite.adminToken = suite.createUserWithRole("admin_user", "admin")
	suite.staffToken = suite.createUserWithRole("staff_user", "staff")

	loanService := services.NewLoanService(db)
	paymentService := services.NewPaymentService(db)
	loanHandler := NewLoanHandler(loanService, paymentService)

	authRequired := middleware.AuthRequired(db)

	router := gin.New()
	loans := router.Group("/api/v1/loans")
	{
		loans.GET("", authRequired, middleware.RequirePermissions(permissions.ViewLoans), loanHandler.GetLoans)
		loans.POST("", authRequired, middleware.RequirePermissions(permissions.CreateLoans), loanHandler.CreateLoan)
		loans.GET("/:id", authRequired, middleware.RequirePermissions(permissions.ViewLoans), loanHandler.GetLoan)
		loans.POST("/:id/payments", authRequired, middleware.RequirePermissions(permissions.CreateLoans), loanHandler.AddPayment)
		loans.POST("/:id/extend", authRequired, middleware.RequirePermissions(permissions.ApproveLoans), loanHandler.ExtendLoan)
		loans.POST("/:id/redeem", authRequired, middleware.RequirePermissions(permissions.ApproveLoans), loanHandler.RedeemLoan)
	}
	suite.router = router
}

func (suite *LoanRoutesTestSuite) createUserWithRole(username, roleName string) string {
	role := &models.Role{Name: roleName}
	suite.Require().NoError(suite.db.Create(role).Error)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		RoleID:   role.ID,
		IsActive: true,
	}
	suite.Require().NoError(user.SetPassword("Str0ngPass!"))
	suite.Require().NoError(suite.db.Create(user).Error)

	token, err := utils.GenerateJWT(user.ID, user.Username, roleName, 1)
	suite.Require().NoError(err)
	return token
}

func (suite *LoanRoutesTestSuite) seedItem(status models.ItemStatus) *models.Item {
	suite.itemSequence++
	item := &models.Item{
		ItemCode:        utils.GenerateItemCode(),
		Name:            fmt.Sprintf("Gold Ring %d", suite.itemSequence),
		Category:        models.ItemCategoryJewelry,
		BranchID:        suite.branch.ID,
		Status:          status,
		AppraisedValue:  1500,
		AcquisitionDate: time.Now(),
	}
	suite.Require().NoError(suite.db.Create(item).Error)
	return item
}

func (suite *LoanRoutesTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LoanRoutesTestSuite) createLoan(amount float64) string {
	item := suite.seedItem(models.ItemStatusPawned)
	start := time.Now()

	w := suite.request("POST", "/api/v1/loans", suite.adminToken, map[string]interface{}{
		"customer_id":   suite.customer.ID,
		"item_id":       item.ID,
		"loan_amount":   amount,
		"interest_rate": 5,
		"term_days":     30,
		"start_date":    start.Format(time.RFC3339),
		"due_date":      start.AddDate(0, 0, 30).Format(time.RFC3339),
		"status":        "active",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.Data.ID
}

func (suite *LoanRoutesTestSuite) TestRequiresAuthentication() {
	w := suite.request("GET", "/api/v1/loans", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LoanRoutesTestSuite) TestRejectsInvalidToken() {
	w := suite.request("GET", "/api/v1/loans", "not-a-token", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LoanRoutesTestSuite) TestStaffCannotExtendLoans() {
	loanID := suite.createLoan(1000)

	w := suite.request("POST", "/api/v1/loans/"+loanID+"/extend", suite.staffToken, map[string]interface{}{
		"additional_days": 15,
	})
	suite.Equal(http.StatusForbidden, w.Code)

	var response utils.APIResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.False(response.Success)
	suite.Require().NotNil(response.Error)
	suite.Contains(response.Error.Message, string(permissions.ApproveLoans))
}

func (suite *LoanRoutesTestSuite) TestStaffCanCreateLoans() {
	item := suite.seedItem(models.ItemStatusPawned)
	start := time.Now()

	w := suite.request("POST", "/api/v1/loans", suite.staffToken, map[string]interface{}{
		"customer_id":   suite.customer.ID,
		"item_id":       item.ID,
		"loan_amount":   500,
		"interest_rate": 10,
		"term_days":     30,
		"start_date":    start.Format(time.RFC3339),
		"due_date":      start.AddDate(0, 0, 30).Format(time.RFC3339),
	})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())

	var response utils.APIResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
}

func (suite *LoanRoutesTestSuite) TestRedeemUnderpaymentIsRejected() {
	loanID := suite.createLoan(1000)

	w := suite.request("POST", "/api/v1/loans/"+loanID+"/redeem", suite.adminToken, map[string]interface{}{
		"payment": map[string]interface{}{
			"amount":         900,
			"payment_method": "cash",
		},
	})
	suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())

	var response utils.APIResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.False(response.Success)
	suite.Require().NotNil(response.Error)
	suite.Contains(response.Error.Message, "remaining balance")
}

func (suite *LoanRoutesTestSuite) TestFullRedemptionCompletesTheLoan() {
	loanID := suite.createLoan(1000)

	w := suite.request("POST", "/api/v1/loans/"+loanID+"/redeem", suite.adminToken, map[string]interface{}{
		"payment": map[string]interface{}{
			"amount":         1050,
			"payment_method": "cash",
		},
	})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data struct {
			Status           string  `json:"status"`
			RemainingBalance float64 `json:"remaining_balance"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("completed", response.Data.Status)
	suite.Equal(0.0, response.Data.RemainingBalance)
}

func (suite *LoanRoutesTestSuite) TestUnknownLoanIsNotFound() {
	w := suite.request("GET", "/api/v1/loans/00000000-0000-0000-0000-000000000001", suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LoanRoutesTestSuite) TestMalformedLoanIDIsBadRequest() {
	w := suite.request("GET", "/api/v1/loans/not-a-uuid", suite.adminToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestLoanRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(LoanRoutesTestSuite))
}
