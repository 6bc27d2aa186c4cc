package model

import "time"

// Role names stored in users.role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an account record as stored in the `users` table.
// The json tags are omitted on purpose: handlers only ever serialise
// UserPrivate, so the password hash cannot leak through an encoder.
//
// Fields:
//
//	ID           - primary key identifier of the user.
//	Email        - unique, normalised email address.
//	Username     - display name chosen at registration.
//	PasswordHash - bcrypt hash of the password.
//	Role         - USER or ADMIN.
//	Enabled      - set by an administrator before the account may log in.
//	Active       - cleared when the account is deactivated.
//	CreatedAt    - timestamp of creation.
//	UpdatedAt    - timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	Enabled      bool      // users.enabled
	Active       bool      // users.active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// NewUser carries the fields supplied when a user row is inserted. The
// store fills in the id, timestamps and the active flag.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Enabled      bool
}

// UserPrivate is the caller-facing view of a User without the password hash.
type UserPrivate struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Private strips the secret fields from u.
func (u User) Private() UserPrivate {
	return UserPrivate{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		Enabled:   u.Enabled,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
