package dto

type CreateCategoryRequest struct {
	Name         string  `json:"name"          validate:"required,min=2,max=80"`
	Description  *string `json:"description"`
	Color        string  `json:"color"         validate:"omitempty,hexcolor"`
	DisplayOrder int     `json:"display_order" validate:"min=0"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name"          validate:"omitempty,min=2,max=80"`
	Description  *string `json:"description"`
	Color        *string `json:"color"         validate:"omitempty,hexcolor"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
}

type CategoryResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Color        string  `json:"color"`
	DisplayOrder int     `json:"display_order"`
	IsActive     bool    `json:"is_active"`
}
