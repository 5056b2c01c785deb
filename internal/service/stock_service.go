package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/repository"
	"github.com/sefedemircan/triz-pos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLine is one (product, quantity) pair of a prospective or confirmed order.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// DeductedItem describes one ingredient after an order deduction, carrying the
// post-deduction stock so callers can raise threshold alerts after commit.
type DeductedItem struct {
	StockItemID uuid.UUID
	Name        string
	Unit        string
	Quantity    decimal.Decimal
	NewStock    decimal.Decimal
	MinLevel    decimal.Decimal
}

// StockService is the stock & recipe accounting core: availability checks,
// production capacity, and the paired depletion/restoration engines that keep
// the movement ledger and the materialized current_stock in lockstep.
type StockService interface {
	// CheckAvailability aggregates per-ingredient requirements across all
	// lines (shared ingredients are summed, not duplicated) and compares them
	// against live stock. Pure read — never mutates stock.
	CheckAvailability(ctx context.Context, lines []OrderLine) (*dto.StockCheckResponse, error)

	// ProductionCapacity returns how many whole units of the product current
	// stock supports. unlimited=true when the product has no recipe rows.
	ProductionCapacity(ctx context.Context, productID uuid.UUID) (capacity int64, unlimited bool, err error)

	// DeductForOrder runs the depletion engine in its own transaction and
	// raises low-stock alerts after commit.
	DeductForOrder(ctx context.Context, lines []OrderLine, orderID, userID uuid.UUID) error

	// DeductForOrderTx is the in-transaction variant used by the order flow so
	// order rows and stock writes commit together. Each ingredient row is
	// locked, re-checked, decremented, and journaled; any shortfall aborts the
	// whole transaction with *InsufficientStockError and zero movements.
	DeductForOrderTx(ctx context.Context, tx *gorm.DB, lines []OrderLine, orderID, userID uuid.UUID) ([]DeductedItem, error)

	// RestoreForOrder replays the order's prior "out" movements as
	// compensating "in" movements on top of whatever the stock level is now.
	// A second call for the same order returns ErrAlreadyRestored.
	RestoreForOrder(ctx context.Context, orderID, userID uuid.UUID) error
	RestoreForOrderTx(ctx context.Context, tx *gorm.DB, orderID, userID uuid.UUID) error

	// RecordMovement registers a manual movement under the item's row lock.
	// "in"/"out" apply the quantity as a delta (outbound never overdraws);
	// "adjustment" sets current_stock to the given counted level and journals
	// the magnitude of the correction.
	RecordMovement(ctx context.Context, req dto.RecordMovementRequest, userID uuid.UUID) (*dto.MovementResponse, error)

	// CriticalItems lists active items at or below their minimum level,
	// lowest first, flagging is_critical when stock has hit zero.
	CriticalItems(ctx context.Context) ([]dto.StockRequirement, error)

	// RaiseLowStockAlerts writes alert rows and enqueues a notification email
	// for deducted items that crossed their thresholds. Best-effort: failures
	// are logged, never propagated into the order flow.
	RaiseLowStockAlerts(ctx context.Context, deducted []DeductedItem)
}

type stockService struct {
	items      repository.StockItemRepository
	movements  repository.StockMovementRepository
	recipes    repository.RecipeRepository
	alerts     repository.StockAlertRepository
	dispatcher *worker.Dispatcher
}

func NewStockService(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	recipes repository.RecipeRepository,
	alerts repository.StockAlertRepository,
	dispatcher *worker.Dispatcher,
) StockService {
	return &stockService{
		items:      items,
		movements:  movements,
		recipes:    recipes,
		alerts:     alerts,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Availability Calculator ──────────────────────────────────────────────────

func (s *stockService) CheckAvailability(ctx context.Context, lines []OrderLine) (*dto.StockCheckResponse, error) {
	requirements, err := s.aggregateRequirements(ctx, lines)
	if err != nil {
		return nil, err
	}

	resp := &dto.StockCheckResponse{
		Requirements:      requirements,
		InsufficientItems: []dto.StockRequirement{},
	}
	for _, req := range requirements {
		if req.CurrentStock.LessThan(req.QuantityNeeded) {
			resp.InsufficientItems = append(resp.InsufficientItems, req)
		}
	}
	resp.CanFulfill = len(resp.InsufficientItems) == 0
	return resp, nil
}

// aggregateRequirements resolves every line's recipe, scales quantities by the
// line quantity, and folds shared ingredients into a single requirement so the
// total draw reflects the whole order. Products without recipe rows contribute
// nothing (unconstrained production).
func (s *stockService) aggregateRequirements(ctx context.Context, lines []OrderLine) ([]dto.StockRequirement, error) {
	requirements := make([]dto.StockRequirement, 0)
	index := make(map[uuid.UUID]int)

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("order line for product %s: %w", line.ProductID, ErrInvalidQuantity)
		}

		recipes, err := s.recipes.ListByProduct(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve recipe for product %s: %w", line.ProductID, err)
		}

		for _, recipe := range recipes {
			if recipe.QuantityNeeded.Sign() <= 0 {
				return nil, fmt.Errorf("recipe row %s has quantity_needed <= 0: %w", recipe.ID, ErrInvalidQuantity)
			}
			if recipe.StockItem == nil {
				return nil, fmt.Errorf("recipe row %s: %w", recipe.ID, ErrStockItemNotFound)
			}

			needed := recipe.QuantityNeeded.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if i, ok := index[recipe.StockItemID]; ok {
				requirements[i].QuantityNeeded = requirements[i].QuantityNeeded.Add(needed)
				continue
			}
			index[recipe.StockItemID] = len(requirements)
			requirements = append(requirements, dto.StockRequirement{
				StockItemID:    recipe.StockItemID.String(),
				StockItemName:  recipe.StockItem.Name,
				Unit:           recipe.StockItem.Unit,
				QuantityNeeded: needed,
				CurrentStock:   recipe.StockItem.CurrentStock,
				IsCritical:     recipe.IsCritical,
			})
		}
	}
	return requirements, nil
}

func (s *stockService) ProductionCapacity(ctx context.Context, productID uuid.UUID) (int64, bool, error) {
	recipes, err := s.recipes.ListByProduct(ctx, productID)
	if err != nil {
		return 0, false, fmt.Errorf("resolve recipe for product %s: %w", productID, err)
	}
	// No recipe rows means production is not stock-constrained.
	if len(recipes) == 0 {
		return 0, true, nil
	}

	var capacity int64 = -1
	for _, recipe := range recipes {
		if recipe.QuantityNeeded.Sign() <= 0 {
			return 0, false, fmt.Errorf("recipe row %s has quantity_needed <= 0: %w", recipe.ID, ErrInvalidQuantity)
		}
		if recipe.StockItem == nil {
			return 0, false, fmt.Errorf("recipe row %s: %w", recipe.ID, ErrStockItemNotFound)
		}
		portions := recipe.StockItem.CurrentStock.Div(recipe.QuantityNeeded).Floor().IntPart()
		if portions < 0 {
			portions = 0
		}
		if capacity < 0 || portions < capacity {
			capacity = portions
		}
	}
	return capacity, false, nil
}

// ── Depletion Engine ─────────────────────────────────────────────────────────

func (s *stockService) DeductForOrder(ctx context.Context, lines []OrderLine, orderID, userID uuid.UUID) error {
	var deducted []DeductedItem
	err := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		var txErr error
		deducted, txErr = s.DeductForOrderTx(ctx, tx, lines, orderID, userID)
		return txErr
	})
	if err != nil {
		return err
	}
	s.RaiseLowStockAlerts(ctx, deducted)
	return nil
}

func (s *stockService) DeductForOrderTx(ctx context.Context, tx *gorm.DB, lines []OrderLine, orderID, userID uuid.UUID) ([]DeductedItem, error) {
	requirements, err := s.aggregateRequirements(ctx, lines)
	if err != nil {
		return nil, err
	}

	deducted := make([]DeductedItem, 0, len(requirements))
	for _, req := range requirements {
		itemID, err := uuid.Parse(req.StockItemID)
		if err != nil {
			return nil, fmt.Errorf("stock item id %q: %w", req.StockItemID, err)
		}

		// Lock the row and re-read: the aggregation above ran outside the lock
		// and a concurrent order may have drained the item since.
		item, err := s.items.FindForUpdateTx(tx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("stock item %s: %w", itemID, ErrStockItemNotFound)
			}
			return nil, err
		}

		if item.CurrentStock.LessThan(req.QuantityNeeded) {
			shortfall := req
			shortfall.CurrentStock = item.CurrentStock
			// Returning the error rolls back every decrement and movement
			// already applied for this order — all-or-nothing.
			return nil, &InsufficientStockError{Items: []dto.StockRequirement{shortfall}}
		}

		newStock := item.CurrentStock.Sub(req.QuantityNeeded)
		if err := s.items.AdjustStockTx(tx, itemID, req.QuantityNeeded.Neg()); err != nil {
			return nil, fmt.Errorf("deduct stock for %s: %w", item.Name, err)
		}

		orderRef := orderID
		actor := userID
		notes := fmt.Sprintf("Automatic deduction for order %s", orderID)
		movement := &model.StockMovement{
			StockItemID:   itemID,
			Type:          "out",
			Quantity:      req.QuantityNeeded,
			PreviousStock: item.CurrentStock,
			NewStock:      newStock,
			UnitCost:      item.UnitCost,
			ReferenceType: "order",
			ReferenceID:   &orderRef,
			UserID:        &actor,
			Notes:         &notes,
		}
		if err := s.movements.CreateTx(tx, movement); err != nil {
			return nil, fmt.Errorf("record movement for %s: %w", item.Name, err)
		}

		deducted = append(deducted, DeductedItem{
			StockItemID: itemID,
			Name:        item.Name,
			Unit:        item.Unit,
			Quantity:    req.QuantityNeeded,
			NewStock:    newStock,
			MinLevel:    item.MinStockLevel,
		})
	}
	return deducted, nil
}

// ── Restoration Engine ───────────────────────────────────────────────────────

func (s *stockService) RestoreForOrder(ctx context.Context, orderID, userID uuid.UUID) error {
	return runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		return s.RestoreForOrderTx(ctx, tx, orderID, userID)
	})
}

func (s *stockService) RestoreForOrderTx(ctx context.Context, tx *gorm.DB, orderID, userID uuid.UUID) error {
	// Idempotence guard: a cancelled order is compensated exactly once.
	compensations, err := s.movements.FindByReferenceTx(tx, "order_cancel", orderID, "")
	if err != nil {
		return err
	}
	if len(compensations) > 0 {
		return ErrAlreadyRestored
	}

	outs, err := s.movements.FindByReferenceTx(tx, "order", orderID, "out")
	if err != nil {
		return err
	}

	for _, out := range outs {
		// Restore on top of the *current* level, not the level at deduction
		// time, so unrelated movements in between are respected.
		item, err := s.items.FindForUpdateTx(tx, out.StockItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("stock item %s: %w", out.StockItemID, ErrStockItemNotFound)
			}
			return err
		}

		newStock := item.CurrentStock.Add(out.Quantity)
		if err := s.items.AdjustStockTx(tx, out.StockItemID, out.Quantity); err != nil {
			return fmt.Errorf("restore stock for %s: %w", item.Name, err)
		}

		orderRef := orderID
		actor := userID
		notes := fmt.Sprintf("Order %s cancelled - stock restored", orderID)
		movement := &model.StockMovement{
			StockItemID:   out.StockItemID,
			Type:          "in",
			Quantity:      out.Quantity,
			PreviousStock: item.CurrentStock,
			NewStock:      newStock,
			UnitCost:      out.UnitCost,
			ReferenceType: "order_cancel",
			ReferenceID:   &orderRef,
			UserID:        &actor,
			Notes:         &notes,
		}
		if err := s.movements.CreateTx(tx, movement); err != nil {
			return fmt.Errorf("record compensating movement for %s: %w", item.Name, err)
		}
	}
	return nil
}

// ── Manual movements ─────────────────────────────────────────────────────────

func (s *stockService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest, userID uuid.UUID) (*dto.MovementResponse, error) {
	itemID, err := uuid.Parse(req.StockItemID)
	if err != nil {
		return nil, fmt.Errorf("stock_item_id: %w", err)
	}
	if req.Quantity.Sign() < 0 {
		return nil, fmt.Errorf("movement quantity must not be negative: %w", ErrInvalidQuantity)
	}
	// Zero is only meaningful for an adjustment (a count that landed on zero).
	if req.Quantity.Sign() == 0 && req.Type != "adjustment" {
		return nil, fmt.Errorf("movement quantity must be positive: %w", ErrInvalidQuantity)
	}

	var movement *model.StockMovement
	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		item, err := s.items.FindForUpdateTx(tx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("stock item %s: %w", itemID, ErrStockItemNotFound)
			}
			return err
		}

		delta := req.Quantity
		quantity := req.Quantity
		switch req.Type {
		case "out":
			if item.CurrentStock.LessThan(req.Quantity) {
				return &InsufficientStockError{Items: []dto.StockRequirement{{
					StockItemID:    item.ID.String(),
					StockItemName:  item.Name,
					Unit:           item.Unit,
					QuantityNeeded: req.Quantity,
					CurrentStock:   item.CurrentStock,
				}}}
			}
			delta = req.Quantity.Neg()
		case "adjustment":
			// An adjustment is an inventory count: the request carries the
			// counted level, the ledger records the size of the correction.
			delta = req.Quantity.Sub(item.CurrentStock)
			quantity = delta.Abs()
		}

		newStock := item.CurrentStock.Add(delta)
		if err := s.items.AdjustStockTx(tx, itemID, delta); err != nil {
			return err
		}

		actor := userID
		movement = &model.StockMovement{
			StockItemID:   itemID,
			Type:          req.Type,
			Quantity:      quantity,
			PreviousStock: item.CurrentStock,
			NewStock:      newStock,
			UnitCost:      item.UnitCost,
			ReferenceType: req.ReferenceType,
			UserID:        &actor,
			Notes:         req.Notes,
		}
		return s.movements.CreateTx(tx, movement)
	})
	if txErr != nil {
		return nil, txErr
	}

	return movementToResponse(movement), nil
}

// ── Alert derivation ─────────────────────────────────────────────────────────

func (s *stockService) CriticalItems(ctx context.Context) ([]dto.StockRequirement, error) {
	items, err := s.items.FindCritical(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StockRequirement, 0, len(items))
	for _, item := range items {
		result = append(result, dto.StockRequirement{
			StockItemID:    item.ID.String(),
			StockItemName:  item.Name,
			Unit:           item.Unit,
			QuantityNeeded: item.MinStockLevel,
			CurrentStock:   item.CurrentStock,
			IsCritical:     item.CurrentStock.Sign() <= 0,
		})
	}
	return result, nil
}

func (s *stockService) RaiseLowStockAlerts(ctx context.Context, deducted []DeductedItem) {
	if s.alerts == nil {
		return
	}
	for _, item := range deducted {
		if item.NewStock.GreaterThan(item.MinLevel) {
			continue
		}

		alertType := "low_stock"
		if item.NewStock.Sign() <= 0 {
			alertType = "out_of_stock"
		}

		open, err := s.alerts.HasOpenAlert(ctx, item.StockItemID, alertType)
		if err != nil {
			log.Error().Err(err).Str("stock_item", item.Name).Msg("alert lookup failed")
			continue
		}
		if open {
			continue
		}

		threshold := item.MinLevel
		current := item.NewStock
		msg := fmt.Sprintf("%s is at %s %s (minimum %s)", item.Name, current.String(), item.Unit, threshold.String())
		alert := &model.StockAlert{
			StockItemID:    item.StockItemID,
			AlertType:      alertType,
			ThresholdValue: &threshold,
			CurrentValue:   &current,
			Message:        &msg,
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			log.Error().Err(err).Str("stock_item", item.Name).Msg("failed to create stock alert")
			continue
		}

		if s.dispatcher != nil {
			payload := worker.AlertPayload{
				StockItemName: item.Name,
				Unit:          item.Unit,
				CurrentStock:  item.NewStock.String(),
				MinLevel:      item.MinLevel.String(),
				AlertType:     alertType,
			}
			if err := s.dispatcher.EnqueueAlert(ctx, payload); err != nil {
				log.Warn().Err(err).Str("stock_item", item.Name).Msg("failed to enqueue alert email")
			}
		}
	}
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	var refID *string
	if m.ReferenceID != nil {
		s := m.ReferenceID.String()
		refID = &s
	}
	name := ""
	if m.StockItem != nil {
		name = m.StockItem.Name
	}
	return &dto.MovementResponse{
		ID:            m.ID.String(),
		StockItemID:   m.StockItemID.String(),
		StockItemName: name,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		ReferenceType: m.ReferenceType,
		ReferenceID:   refID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
