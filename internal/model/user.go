package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff account. Role drives route-level authorization:
// "admin" manages everything, "waiter" takes orders, "kitchen" works the queue.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	FullName     string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:'waiter'"` // "admin" | "waiter" | "kitchen"
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
