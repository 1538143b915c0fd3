package domain

// Role enumerates caller roles.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may work grievances.
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// StaffMember is a roster entry eligible for assignment.
type StaffMember struct {
	ID    string
	Email string
	Name  *string
	Role  Role
}

// DisplayName returns the name when present, otherwise the email.
func (s StaffMember) DisplayName() string {
	if s.Name != nil && *s.Name != "" {
		return *s.Name
	}
	return s.Email
}
