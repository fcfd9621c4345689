package domain

import "errors"

// User is the authenticated API principal carried in request context.
// Identity management lives outside this service; the principal is
// whatever the verified token claims say it is.
type User struct {
	ID       string
	Username string
	Role     Role
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"

	// RoleOperator can record expenses and settlements and manage rosters
	RoleOperator Role = "operator"

	// RoleViewer can only view resources, no mutations
	RoleViewer Role = "viewer"
)

// Valid roles
var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanRecord checks if the role can record expenses and settlements
func (r Role) CanRecord() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanManageGroups checks if the role can create groups and change rosters
func (r Role) CanManageGroups() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanReconcile checks if the role can trigger mirror reconciliation
func (r Role) CanReconcile() bool {
	return r == RoleAdmin
}

// CanViewAll checks if the role can view all resources
func (r Role) CanViewAll() bool {
	// All authenticated users can view
	return r.IsValid()
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
