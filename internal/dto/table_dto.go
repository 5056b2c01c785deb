package dto

type CreateTableRequest struct {
	TableNumber int `json:"table_number" validate:"required,min=1"`
	Capacity    int `json:"capacity"     validate:"required,min=1,max=50"`
}

type UpdateTableRequest struct {
	TableNumber *int    `json:"table_number" validate:"omitempty,min=1"`
	Capacity    *int    `json:"capacity"     validate:"omitempty,min=1,max=50"`
	Status      *string `json:"status"       validate:"omitempty,oneof=empty occupied reserved"`
}

type TableResponse struct {
	ID          string `json:"id"`
	TableNumber int    `json:"table_number"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	// ActiveOrderID is set when an order with status active/ready is open on this table.
	ActiveOrderID *string `json:"active_order_id,omitempty"`
}
