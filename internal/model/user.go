package model

import "time"

// Roles stored in users.role.
const (
	RoleUser  = "USER"
	RoleStaff = "STAFF"
)

// User represents an application user record as stored in the
// `users` table.  Staff users manage the catalog; everyone else can
// keep favorites.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password, never serialized.
//  Role         – USER or STAFF.
//  CreatedAt    – registration timestamp.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
