package domain

import "time"

// Profile is an account record shared by citizens and staff.
type Profile struct {
	ID           string
	Email        string
	Name         *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the name when present, otherwise the email.
func (p Profile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Email
}

// RoleAssignment links a profile to its role.
type RoleAssignment struct {
	UserID string
	Role   Role
}
