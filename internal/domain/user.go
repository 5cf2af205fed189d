package domain

import "time"

// Role distinguishes administrators from standard users.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the domain model for account holders who submit complaints.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  time.Time
}
