package domain

import "time"

// UserRole controls authorization for tenant-scoped operations.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// ParseUserRole validates a raw role string.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", ErrValidation("unknown user role %q", s)
}

// User is a member of exactly one organization.
type User struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	PasswordHash   string
	Role           UserRole
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserUpdate is a partial field update for a user.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *UserRole
}

// Organization is the tenant isolation boundary.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
