package domain

import "time"

// UserRole distinguishes event organizers from registering players.
type UserRole string

const (
	UserRoleOrganizer UserRole = "ORGANIZER"
	UserRolePlayer    UserRole = "PLAYER"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for platform accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
