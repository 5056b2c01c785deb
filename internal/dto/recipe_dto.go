package dto

import "github.com/shopspring/decimal"

type CreateRecipeItemRequest struct {
	StockItemID    string          `json:"stock_item_id"   validate:"required,uuid"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed" validate:"required"`
	Unit           string          `json:"unit"            validate:"required"`
	IsCritical     bool            `json:"is_critical"`
	CostPercentage decimal.Decimal `json:"cost_percentage"`
}

type UpdateRecipeItemRequest struct {
	QuantityNeeded *decimal.Decimal `json:"quantity_needed"`
	Unit           *string          `json:"unit"`
	IsCritical     *bool            `json:"is_critical"`
	CostPercentage *decimal.Decimal `json:"cost_percentage"`
}

type RecipeItemResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	StockItemID    string          `json:"stock_item_id"`
	StockItemName  string          `json:"stock_item_name,omitempty"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
	Unit           string          `json:"unit"`
	IsCritical     bool            `json:"is_critical"`
	CostPercentage decimal.Decimal `json:"cost_percentage"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
}
