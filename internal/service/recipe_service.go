package service

import (
	"context"
	"fmt"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/repository"

	"github.com/google/uuid"
)

type RecipeService interface {
	AddRecipeItem(ctx context.Context, productID uuid.UUID, req dto.CreateRecipeItemRequest) (*dto.RecipeItemResponse, error)
	ListRecipe(ctx context.Context, productID uuid.UUID) ([]dto.RecipeItemResponse, error)
	UpdateRecipeItem(ctx context.Context, id uuid.UUID, req dto.UpdateRecipeItemRequest) (*dto.RecipeItemResponse, error)
	RemoveRecipeItem(ctx context.Context, id uuid.UUID) error
}

type recipeService struct {
	repo        repository.RecipeRepository
	productRepo repository.ProductRepository
	itemRepo    repository.StockItemRepository
}

func NewRecipeService(
	repo repository.RecipeRepository,
	productRepo repository.ProductRepository,
	itemRepo repository.StockItemRepository,
) RecipeService {
	return &recipeService{repo: repo, productRepo: productRepo, itemRepo: itemRepo}
}

func (s *recipeService) AddRecipeItem(ctx context.Context, productID uuid.UUID, req dto.CreateRecipeItemRequest) (*dto.RecipeItemResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, ErrProductNotFound
	}
	itemID, err := uuid.Parse(req.StockItemID)
	if err != nil {
		return nil, fmt.Errorf("stock_item_id: %w", err)
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, ErrStockItemNotFound
	}
	// A zero-consumption recipe row is meaningless and would break capacity
	// math — reject it at the door.
	if req.QuantityNeeded.Sign() <= 0 {
		return nil, fmt.Errorf("quantity_needed must be positive: %w", ErrInvalidQuantity)
	}

	rec := &model.ProductRecipe{
		ProductID:      productID,
		StockItemID:    itemID,
		QuantityNeeded: req.QuantityNeeded,
		Unit:           req.Unit,
		IsCritical:     req.IsCritical,
		CostPercentage: req.CostPercentage,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	rec.StockItem = item
	resp := recipeToResponse(rec)
	return &resp, nil
}

func (s *recipeService) ListRecipe(ctx context.Context, productID uuid.UUID) ([]dto.RecipeItemResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, ErrProductNotFound
	}
	recipes, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RecipeItemResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, recipeToResponse(&recipes[i]))
	}
	return resp, nil
}

func (s *recipeService) UpdateRecipeItem(ctx context.Context, id uuid.UUID, req dto.UpdateRecipeItemRequest) (*dto.RecipeItemResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recipe item not found")
	}
	if req.QuantityNeeded != nil {
		if req.QuantityNeeded.Sign() <= 0 {
			return nil, fmt.Errorf("quantity_needed must be positive: %w", ErrInvalidQuantity)
		}
		rec.QuantityNeeded = *req.QuantityNeeded
	}
	if req.Unit != nil {
		rec.Unit = *req.Unit
	}
	if req.IsCritical != nil {
		rec.IsCritical = *req.IsCritical
	}
	if req.CostPercentage != nil {
		rec.CostPercentage = *req.CostPercentage
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	resp := recipeToResponse(rec)
	return &resp, nil
}

func (s *recipeService) RemoveRecipeItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func recipeToResponse(r *model.ProductRecipe) dto.RecipeItemResponse {
	resp := dto.RecipeItemResponse{
		ID:             r.ID.String(),
		ProductID:      r.ProductID.String(),
		StockItemID:    r.StockItemID.String(),
		QuantityNeeded: r.QuantityNeeded,
		Unit:           r.Unit,
		IsCritical:     r.IsCritical,
		CostPercentage: r.CostPercentage,
	}
	if r.StockItem != nil {
		resp.StockItemName = r.StockItem.Name
		resp.CurrentStock = r.StockItem.CurrentStock
	}
	return resp
}
