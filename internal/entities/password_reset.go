package entities

import "time"

// PasswordReset is a pending one-time reset. Only the SHA-256 of the
// emailed token is stored.
type PasswordReset struct {
	ID        string    `json:"_id,omitempty"`
	Email     string    `json:"email"`
	TokenHash string    `json:"tokenHash"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (r *PasswordReset) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
