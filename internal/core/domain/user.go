package domain

import "time"

// DefaultRole is assigned when a registration carries no role.
const DefaultRole = "USER"

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayRole returns the stored role, falling back to DefaultRole for
// records written before the default was enforced.
func (u *User) DisplayRole() string {
	if u.Role == "" {
		return DefaultRole
	}
	return u.Role
}

// Identity is the authenticated subject resolved from a bearer token.
type Identity struct {
	Username string
}
