package domain

import "time"

// AccessToken is the metadata of a signed bearer token. The role is the one
// held at issue time.
type AccessToken struct {
	ID        string
	ProfileID string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
