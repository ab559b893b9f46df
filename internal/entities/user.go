package entities

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account. PasswordHash is never serialized to clients.
type User struct {
	ID           string    `json:"_id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	Img          string    `json:"img,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
