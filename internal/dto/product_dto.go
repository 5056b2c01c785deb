package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	ImageURL    *string         `json:"image_url"   validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"  validate:"omitempty,uuid"`
	IsAvailable *bool            `json:"is_available"`
	ImageURL    *string          `json:"image_url"    validate:"omitempty,url"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	Available  string `form:"available"` // "false" = unavailable, "all" = everything, default = available
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	Category    string          `json:"category,omitempty"`
	IsAvailable bool            `json:"is_available"`
	ImageURL    *string         `json:"image_url"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CapacityResponse is returned by the production-capacity endpoint. Unlimited
// products (no recipe rows) report unlimited=true and capacity is meaningless.
type CapacityResponse struct {
	ProductID string `json:"product_id"`
	Unlimited bool   `json:"unlimited"`
	Capacity  int64  `json:"capacity"`
}
