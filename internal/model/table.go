package model

import (
	"time"

	"github.com/google/uuid"
)

// Table is a physical dining table. Status flips to "occupied" when an order
// opens on it and back to "empty" when the order completes or is cancelled.
type Table struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableNumber int       `gorm:"uniqueIndex;not null"`
	Capacity    int       `gorm:"not null;default:4"`
	Status      string    `gorm:"not null;default:'empty'"` // "empty" | "occupied" | "reserved"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
