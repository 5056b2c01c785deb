package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovement is one immutable ledger entry recording a stock change.
// Rows are only ever inserted — corrections are new compensating rows, and
// summing the signed movements for an item must reproduce its CurrentStock.
type StockMovement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StockItemID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type          string    `gorm:"not null"` // "in" | "out" | "adjustment"
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // non-negative magnitude
	PreviousStock decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	NewStock      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ReferenceType string          `gorm:"not null;index:idx_movement_reference"` // order | purchase | manual | usage | waste | expired | return | transfer | order_cancel
	ReferenceID   *uuid.UUID      `gorm:"type:uuid;index:idx_movement_reference"`
	UserID        *uuid.UUID      `gorm:"type:uuid"`
	Notes         *string
	CreatedAt     time.Time

	StockItem *StockItem `gorm:"foreignKey:StockItemID"`
}
