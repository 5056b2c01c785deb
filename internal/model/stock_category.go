package model

import (
	"time"

	"github.com/google/uuid"
)

// StockCategory groups stock items in the inventory screens (dairy, dry goods, …).
type StockCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null;index"`
	Description *string
	Color       string `gorm:"not null;default:'#40c057'"`
	Icon        string `gorm:"not null;default:'package'"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
