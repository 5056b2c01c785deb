package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity"   validate:"required,min=1"`
	Notes     *string `json:"notes"`
}

type CreateOrderRequest struct {
	TableID string             `json:"table_id" validate:"required,uuid"`
	Items   []OrderItemRequest `json:"items"    validate:"required,min=1,dive"`
	Notes   *string            `json:"notes"`
}

type CompleteOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// StockCheckRequest asks whether a prospective set of order lines is fulfillable.
type StockCheckRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type OrderFilter struct {
	Status  string `form:"status"   validate:"omitempty,oneof=active ready completed cancelled"`
	TableID string `form:"table_id" validate:"omitempty,uuid"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	Notes      *string         `json:"notes"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	TableID       string              `json:"table_id"`
	TableNumber   int                 `json:"table_number,omitempty"`
	UserID        string              `json:"user_id"`
	WaiterName    string              `json:"waiter_name,omitempty"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod string              `json:"payment_method"`
	Notes         *string             `json:"notes"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
