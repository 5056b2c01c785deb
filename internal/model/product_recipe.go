package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRecipe is one bill-of-materials row: producing one unit of the product
// consumes QuantityNeeded of the stock item. IsCritical marks ingredients whose
// absence blocks production entirely.
type ProductRecipe struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_stock_item"`
	StockItemID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_stock_item"`
	QuantityNeeded decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unit           string          `gorm:"not null"`
	IsCritical     bool            `gorm:"not null;default:false"`
	CostPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	StockItem *StockItem `gorm:"foreignKey:StockItemID"`
}
