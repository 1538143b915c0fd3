package domain

// Actor is the authenticated caller performing an operation.
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// CanView reports whether the actor may read the grievance. Staff see every
// grievance; citizens see their own.
func (a Actor) CanView(g Grievance) bool {
	return a.Role.IsStaff() || g.UserID == a.UserID
}
