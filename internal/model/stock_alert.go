package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockAlert is a derived, informational condition on a stock item. Alerts are
// shown to humans and never gate the order write path.
type StockAlert struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StockItemID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AlertType      string    `gorm:"not null"` // "low_stock" | "out_of_stock" | "expiring_soon" | "expired"
	ThresholdValue *decimal.Decimal `gorm:"type:decimal(12,3)"`
	CurrentValue   *decimal.Decimal `gorm:"type:decimal(12,3)"`
	Message        *string
	IsAcknowledged bool       `gorm:"not null;default:false"`
	AcknowledgedBy *uuid.UUID `gorm:"type:uuid"`
	AcknowledgedAt *time.Time
	IsResolved     bool `gorm:"not null;default:false"`
	ResolvedAt     *time.Time
	CreatedAt      time.Time

	StockItem *StockItem `gorm:"foreignKey:StockItemID"`
}
