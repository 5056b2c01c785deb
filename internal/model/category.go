package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups menu products for display.
type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null;index"`
	Description  *string
	Color        string `gorm:"not null;default:'#228be6'"`
	DisplayOrder int    `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
