package dto

import "github.com/shopspring/decimal"

// ─── Stock items ─────────────────────────────────────────────────────────────

type CreateStockItemRequest struct {
	Name          string           `json:"name"            validate:"required,min=2,max=120"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	Unit          string           `json:"unit"            validate:"required"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel decimal.Decimal  `json:"max_stock_level"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	Supplier      *string          `json:"supplier"`
	Barcode       *string          `json:"barcode"`
	ExpiryDate    *string          `json:"expiry_date"` // YYYY-MM-DD
	Location      *string          `json:"location"`
	Description   *string          `json:"description"`
}

type UpdateStockItemRequest struct {
	Name          *string          `json:"name"            validate:"omitempty,min=2,max=120"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	Unit          *string          `json:"unit"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	Supplier      *string          `json:"supplier"`
	Barcode       *string          `json:"barcode"`
	ExpiryDate    *string          `json:"expiry_date"`
	Location      *string          `json:"location"`
	Description   *string          `json:"description"`
}

type StockItemFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	Active     string `form:"active"` // "false" = inactive, "all" = everything, default = active
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type StockItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    *string         `json:"category_id"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel decimal.Decimal `json:"max_stock_level"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Supplier      *string         `json:"supplier"`
	Barcode       *string         `json:"barcode"`
	ExpiryDate    *string         `json:"expiry_date"`
	Location      *string         `json:"location"`
	IsActive      bool            `json:"is_active"`
}

type StockItemListResponse struct {
	Data  []StockItemResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// ─── Stock categories ────────────────────────────────────────────────────────

type CreateStockCategoryRequest struct {
	Name        string  `json:"name"  validate:"required,min=2,max=80"`
	Description *string `json:"description"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
	Icon        string  `json:"icon"`
}

type StockCategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	IsActive    bool    `json:"is_active"`
}

// ─── Movements ───────────────────────────────────────────────────────────────

// RecordMovementRequest registers a manual stock movement (purchase receipt,
// waste, adjustment, …). Order-driven movements are written by the order flow.
type RecordMovementRequest struct {
	StockItemID   string          `json:"stock_item_id"  validate:"required,uuid"`
	Type          string          `json:"type"           validate:"required,oneof=in out adjustment"`
	// Delta for in/out; the counted level for adjustment (zero is a valid
	// count), so the range check lives in the service.
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type" validate:"required,oneof=purchase manual usage waste expired return transfer"`
	Notes         *string         `json:"notes"`
}

type MovementFilter struct {
	StockItemID   string `form:"stock_item_id"  validate:"omitempty,uuid"`
	Type          string `form:"type"           validate:"omitempty,oneof=in out adjustment"`
	ReferenceType string `form:"reference_type"`
	Page          int    `form:"page,default=1"    validate:"min=1"`
	Limit         int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID            string          `json:"id"`
	StockItemID   string          `json:"stock_item_id"`
	StockItemName string          `json:"stock_item_name,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   *string         `json:"reference_id"`
	Notes         *string         `json:"notes"`
	CreatedAt     string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Availability / requirements ─────────────────────────────────────────────

// StockRequirement is one aggregated ingredient demand for a set of order
// lines, carrying the live stock read at check time.
type StockRequirement struct {
	StockItemID    string          `json:"stock_item_id"`
	StockItemName  string          `json:"stock_item_name"`
	Unit           string          `json:"unit"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	IsCritical     bool            `json:"is_critical"`
}

type StockCheckResponse struct {
	CanFulfill        bool               `json:"can_fulfill"`
	Requirements      []StockRequirement `json:"requirements"`
	InsufficientItems []StockRequirement `json:"insufficient_items"`
}

// ─── Alerts ──────────────────────────────────────────────────────────────────

type StockAlertResponse struct {
	ID             string           `json:"id"`
	StockItemID    string           `json:"stock_item_id"`
	StockItemName  string           `json:"stock_item_name,omitempty"`
	AlertType      string           `json:"alert_type"`
	ThresholdValue *decimal.Decimal `json:"threshold_value"`
	CurrentValue   *decimal.Decimal `json:"current_value"`
	Message        *string          `json:"message"`
	IsAcknowledged bool             `json:"is_acknowledged"`
	CreatedAt      string           `json:"created_at"`
}
