package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleOwner    UserRole = "owner"
)

// User records persist through the JSON key-value store, so the password
// hash carries a real JSON key. It must never reach API responses: handlers
// serve users through a view that omits it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // stored case-folded, unique
	PasswordHash string    `json:"password_hash"`
	Role         UserRole  `json:"role"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
