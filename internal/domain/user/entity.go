package user

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, may cancel any request
	RoleManager  Role = "manager"  // Can approve leave/attendance requests
	RoleEmployee Role = "employee" // Regular employee
	RoleUser     Role = "user"     // Account without elevated rights
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           string
	EmployeeID   *string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeName *string
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// Principal is the authenticated actor of a request.
type Principal struct {
	UserID     string
	EmployeeID string // empty when the account has no linked employee
	Role       Role
}

func (p Principal) HasEmployee() bool {
	return p.EmployeeID != ""
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
