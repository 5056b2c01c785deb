package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/repository"

	"github.com/google/uuid"
)

// InventoryService is the stock-admin surface: item and category CRUD, the
// movement ledger listing, and alert management. Quantity changes never go
// through item updates — they go through StockService.RecordMovement so the
// ledger stays authoritative.
type InventoryService interface {
	CreateStockItem(ctx context.Context, req dto.CreateStockItemRequest, userID uuid.UUID) (*dto.StockItemResponse, error)
	GetStockItem(ctx context.Context, id uuid.UUID) (*dto.StockItemResponse, error)
	ListStockItems(ctx context.Context, filter dto.StockItemFilter) (*dto.StockItemListResponse, error)
	UpdateStockItem(ctx context.Context, id uuid.UUID, req dto.UpdateStockItemRequest) (*dto.StockItemResponse, error)
	DeactivateStockItem(ctx context.Context, id uuid.UUID) error
	ReactivateStockItem(ctx context.Context, id uuid.UUID) error

	CreateStockCategory(ctx context.Context, req dto.CreateStockCategoryRequest) (*dto.StockCategoryResponse, error)
	ListStockCategories(ctx context.Context) ([]dto.StockCategoryResponse, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)

	ListAlerts(ctx context.Context, includeAcknowledged bool) ([]dto.StockAlertResponse, error)
	AcknowledgeAlert(ctx context.Context, id, userID uuid.UUID) error

	// ScanExpiry raises expiring_soon / expired alerts for items whose expiry
	// date is within the window. Intended to run from a periodic job.
	ScanExpiry(ctx context.Context, window time.Duration) (int, error)
}

type inventoryService struct {
	items      repository.StockItemRepository
	categories repository.StockCategoryRepository
	movements  repository.StockMovementRepository
	alerts     repository.StockAlertRepository
	stock      StockService
}

func NewInventoryService(
	items repository.StockItemRepository,
	categories repository.StockCategoryRepository,
	movements repository.StockMovementRepository,
	alerts repository.StockAlertRepository,
	stock StockService,
) InventoryService {
	return &inventoryService{
		items:      items,
		categories: categories,
		movements:  movements,
		alerts:     alerts,
		stock:      stock,
	}
}

// ── Stock items ──────────────────────────────────────────────────────────────

func (s *inventoryService) CreateStockItem(ctx context.Context, req dto.CreateStockItemRequest, userID uuid.UUID) (*dto.StockItemResponse, error) {
	if req.CurrentStock.Sign() < 0 || req.MinStockLevel.Sign() < 0 {
		return nil, fmt.Errorf("stock levels must not be negative: %w", ErrInvalidQuantity)
	}
	if req.MaxStockLevel.Sign() > 0 && req.MaxStockLevel.LessThan(req.MinStockLevel) {
		return nil, fmt.Errorf("max_stock_level below min_stock_level: %w", ErrInvalidQuantity)
	}

	item := &model.StockItem{
		Name:          req.Name,
		Unit:          req.Unit,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		UnitCost:      req.UnitCost,
		Supplier:      req.Supplier,
		Barcode:       req.Barcode,
		Location:      req.Location,
		Description:   req.Description,
		IsActive:      true,
	}
	if req.CategoryID != nil {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category_id: %w", err)
		}
		item.CategoryID = &catID
	}
	if req.ExpiryDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("expiry_date: %w", err)
		}
		item.ExpiryDate = &t
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	// Opening balance enters through the ledger, not through a raw column
	// write, so the movement history starts consistent.
	if req.CurrentStock.Sign() > 0 {
		notes := "Opening balance"
		_, err := s.stock.RecordMovement(ctx, dto.RecordMovementRequest{
			StockItemID:   item.ID.String(),
			Type:          "in",
			Quantity:      req.CurrentStock,
			ReferenceType: "manual",
			Notes:         &notes,
		}, userID)
		if err != nil {
			return nil, err
		}
		item.CurrentStock = req.CurrentStock
	}

	resp := stockItemToResponse(item)
	return &resp, nil
}

func (s *inventoryService) GetStockItem(ctx context.Context, id uuid.UUID) (*dto.StockItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, ErrStockItemNotFound
	}
	resp := stockItemToResponse(item)
	return &resp, nil
}

func (s *inventoryService) ListStockItems(ctx context.Context, filter dto.StockItemFilter) (*dto.StockItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockItemResponse, 0, len(items))
	for i := range items {
		data = append(data, stockItemToResponse(&items[i]))
	}
	return &dto.StockItemListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventoryService) UpdateStockItem(ctx context.Context, id uuid.UUID, req dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, ErrStockItemNotFound
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.CategoryID != nil {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category_id: %w", err)
		}
		item.CategoryID = &catID
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.MinStockLevel != nil {
		item.MinStockLevel = *req.MinStockLevel
	}
	if req.MaxStockLevel != nil {
		item.MaxStockLevel = *req.MaxStockLevel
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	}
	if req.Supplier != nil {
		item.Supplier = req.Supplier
	}
	if req.Barcode != nil {
		item.Barcode = req.Barcode
	}
	if req.ExpiryDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("expiry_date: %w", err)
		}
		item.ExpiryDate = &t
	}
	if req.Location != nil {
		item.Location = req.Location
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	// Re-check the threshold pair: either side may have moved.
	if item.MaxStockLevel.Sign() > 0 && item.MaxStockLevel.LessThan(item.MinStockLevel) {
		return nil, fmt.Errorf("max_stock_level below min_stock_level: %w", ErrInvalidQuantity)
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := stockItemToResponse(item)
	return &resp, nil
}

func (s *inventoryService) DeactivateStockItem(ctx context.Context, id uuid.UUID) error {
	return s.items.SoftDelete(ctx, id)
}

func (s *inventoryService) ReactivateStockItem(ctx context.Context, id uuid.UUID) error {
	return s.items.Reactivate(ctx, id)
}

// ── Stock categories ─────────────────────────────────────────────────────────

func (s *inventoryService) CreateStockCategory(ctx context.Context, req dto.CreateStockCategoryRequest) (*dto.StockCategoryResponse, error) {
	c := &model.StockCategory{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.Color != "" {
		c.Color = req.Color
	}
	if req.Icon != "" {
		c.Icon = req.Icon
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.StockCategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		IsActive:    c.IsActive,
	}, nil
}

func (s *inventoryService) ListStockCategories(ctx context.Context) ([]dto.StockCategoryResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockCategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, dto.StockCategoryResponse{
			ID:          c.ID.String(),
			Name:        c.Name,
			Description: c.Description,
			Color:       c.Color,
			Icon:        c.Icon,
			IsActive:    c.IsActive,
		})
	}
	return resp, nil
}

// ── Movements ────────────────────────────────────────────────────────────────

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		data = append(data, *movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Alerts ───────────────────────────────────────────────────────────────────

func (s *inventoryService) ListAlerts(ctx context.Context, includeAcknowledged bool) ([]dto.StockAlertResponse, error) {
	alerts, err := s.alerts.List(ctx, includeAcknowledged)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		name := ""
		if a.StockItem != nil {
			name = a.StockItem.Name
		}
		resp = append(resp, dto.StockAlertResponse{
			ID:             a.ID.String(),
			StockItemID:    a.StockItemID.String(),
			StockItemName:  name,
			AlertType:      a.AlertType,
			ThresholdValue: a.ThresholdValue,
			CurrentValue:   a.CurrentValue,
			Message:        a.Message,
			IsAcknowledged: a.IsAcknowledged,
			CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *inventoryService) AcknowledgeAlert(ctx context.Context, id, userID uuid.UUID) error {
	return s.alerts.Acknowledge(ctx, id, userID)
}

// ── Expiry scan ──────────────────────────────────────────────────────────────

func (s *inventoryService) ScanExpiry(ctx context.Context, window time.Duration) (int, error) {
	// Unpaged on purpose: the sweep has to see every dated item, and the
	// repository already filters out rows without an expiry date.
	items, err := s.items.FindExpiring(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	deadline := now.Add(window)
	raised := 0

	for i := range items {
		item := &items[i]

		alertType := ""
		switch {
		case item.ExpiryDate.Before(now):
			alertType = "expired"
		case item.ExpiryDate.Before(deadline):
			alertType = "expiring_soon"
		default:
			continue
		}

		open, err := s.alerts.HasOpenAlert(ctx, item.ID, alertType)
		if err != nil {
			return raised, err
		}
		if open {
			continue
		}

		current := item.CurrentStock
		msg := fmt.Sprintf("%s expires on %s", item.Name, item.ExpiryDate.Format("2006-01-02"))
		if alertType == "expired" {
			msg = fmt.Sprintf("%s expired on %s", item.Name, item.ExpiryDate.Format("2006-01-02"))
		}
		alert := &model.StockAlert{
			StockItemID:  item.ID,
			AlertType:    alertType,
			CurrentValue: &current,
			Message:      &msg,
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			return raised, err
		}
		raised++
	}
	return raised, nil
}

func stockItemToResponse(item *model.StockItem) dto.StockItemResponse {
	resp := dto.StockItemResponse{
		ID:            item.ID.String(),
		Name:          item.Name,
		Unit:          item.Unit,
		CurrentStock:  item.CurrentStock,
		MinStockLevel: item.MinStockLevel,
		MaxStockLevel: item.MaxStockLevel,
		UnitCost:      item.UnitCost,
		Supplier:      item.Supplier,
		Barcode:       item.Barcode,
		Location:      item.Location,
		IsActive:      item.IsActive,
	}
	if item.CategoryID != nil {
		id := item.CategoryID.String()
		resp.CategoryID = &id
	}
	if item.ExpiryDate != nil {
		d := item.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &d
	}
	return resp
}
