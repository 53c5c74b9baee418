// internal/permissions/permissions.go
package permissions

import (
	"github.com/javajoker/pawnshop-backend/internal/apperrors"
	"github.com/javajoker/pawnshop-backend/internal/models"
)

// Permission is a resource:action token. The set is closed: handlers gate on
// these constants, never on free-form strings.
type Permission string

const (
	// User management
	ViewUsers   Permission = "view_users"
	ManageUsers Permission = "manage_users"

	// Customer management
	ViewCustomers   Permission = "view_customers"
	ManageCustomers Permission = "manage_customers"

	// Loan management
	ViewLoans    Permission = "view_loans"
	CreateLoans  Permission = "create_loans"
	ApproveLoans Permission = "approve_loans"
	ManageLoans  Permission = "manage_loans"

	// Inventory management
	ViewInventory   Permission = "view_inventory"
	ManageInventory Permission = "manage_inventory"

	// Transaction management
	ViewTransactions   Permission = "view_transactions"
	ManageTransactions Permission = "manage_transactions"

	// Reports
	ViewReports   Permission = "view_reports"
	ManageReports Permission = "manage_reports"

	// Branch management
	ViewBranches   Permission = "view_branches"
	ManageBranches Permission = "manage_branches"
)

// All lists every permission token that exists. Order matches the groups above.
var All = []Permission{
	ViewUsers, ManageUsers,
	ViewCustomers, ManageCustomers,
	ViewLoans, CreateLoans, ApproveLoans, ManageLoans,
	ViewInventory, ManageInventory,
	ViewTransactions, ManageTransactions,
	ViewReports, ManageReports,
	ViewBranches, ManageBranches,
}

// rolePermissions maps a lowercase role name to its granted set. There is no
// hierarchy: manage_* does not imply view_*, every token is granted explicitly.
var rolePermissions = map[string][]Permission{
	"admin": All,
	"manager": {
		ViewUsers,
		ViewCustomers,
		ManageCustomers,
		ViewLoans,
		CreateLoans,
		ApproveLoans,
		ViewInventory,
		ManageInventory,
		ViewTransactions,
		ManageTransactions,
		ViewReports,
		ViewBranches,
	},
	"staff": {
		ViewCustomers,
		ViewLoans,
		CreateLoans,
		ViewInventory,
		ViewTransactions,
		ManageTransactions,
	},
}

// RolePermissions returns the granted set for a role name, and whether the
// role is known.
func RolePermissions(role string) ([]Permission, bool) {
	perms, ok := rolePermissions[role]
	return perms, ok
}

// Check verifies that user holds every required permission. It fails with an
// authentication error when no user is present, and an authorization error
// naming the first missing permission otherwise.
func Check(user *models.User, required ...Permission) error {
	if user == nil {
		return apperrors.Authentication("not authenticated")
	}

	granted, ok := rolePermissions[user.RoleName()]
	if !ok {
		return apperrors.Authorizationf("invalid role")
	}

	for _, perm := range required {
		if !contains(granted, perm) {
			return apperrors.Authorizationf("missing required permission: %s", perm)
		}
	}
	return nil
}

func contains(perms []Permission, p Permission) bool {
	for _, granted := range perms {
		if granted == p {
			return true
		}
	}
	return false
}
