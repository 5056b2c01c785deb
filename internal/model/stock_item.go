package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is an inventory-tracked ingredient or supply. CurrentStock is a
// materialized running total of this item's movements; it is only ever changed
// together with a StockMovement row, inside the same transaction, and is never
// driven below zero.
type StockItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null;index"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	Unit          string     `gorm:"not null;default:'piece'"` // kg | liter | piece | ...
	CurrentStock  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	MaxStockLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Supplier      *string
	Barcode       *string `gorm:"index"`
	ExpiryDate    *time.Time
	Location      *string
	Description   *string
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *StockCategory `gorm:"foreignKey:CategoryID"`
}
