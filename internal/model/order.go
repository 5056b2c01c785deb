package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle: active → ready → completed, or active/ready → cancelled.
// Completing captures the payment; cancelling restores any deducted stock.
type Order struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableID       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Status        string    `gorm:"not null;default:'active';index"` // "active" | "ready" | "completed" | "cancelled"
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"not null;default:'pending'"` // "cash" | "card" | "pending"
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
	Table *Table      `gorm:"foreignKey:TableID"`
	User  *User       `gorm:"foreignKey:UserID"`
}

// OrderItem is one order line. TotalPrice = UnitPrice × Quantity, frozen at
// order time so later menu price changes do not rewrite history.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status     string          `gorm:"not null;default:'pending'"` // "pending" | "preparing" | "ready" | "served"
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
