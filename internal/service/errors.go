package service

import (
	"errors"
	"fmt"

	"github.com/sefedemircan/triz-pos/internal/dto"
)

// Sentinel errors returned by the stock and order services. Handlers map these
// onto HTTP status codes; nothing here is retried automatically.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrStockItemNotFound = errors.New("stock item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrTableOccupied     = errors.New("table already has an open order")

	// ErrInvalidQuantity covers non-positive requested quantities and recipe
	// rows whose quantity_needed is zero or negative (malformed recipe data
	// is rejected, never guessed around).
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrAlreadyRestored guards the restoration engine against double
	// cancellation: compensating movements already exist for the order.
	ErrAlreadyRestored = errors.New("stock already restored for this order")

	// ErrInvalidTransition rejects lifecycle moves the state machine does not
	// allow (e.g. completing a cancelled order).
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// InsufficientStockError reports which aggregated ingredient requirements
// cannot be covered by current stock. The order flow surfaces the shortfall
// list to the user and leaves the ledger untouched.
type InsufficientStockError struct {
	Items []dto.StockRequirement
}

func (e *InsufficientStockError) Error() string {
	if len(e.Items) == 1 {
		return fmt.Sprintf("insufficient stock: %s", e.Items[0].StockItemName)
	}
	return fmt.Sprintf("insufficient stock for %d ingredients", len(e.Items))
}
