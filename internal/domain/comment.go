package domain

import "time"

// Comment is an append-only note on a grievance.
type Comment struct {
	ID          string
	GrievanceID string
	UserID      string
	Content     string
	CreatedAt   time.Time
}
