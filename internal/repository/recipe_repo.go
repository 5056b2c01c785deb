package repository

import (
	"context"

	"github.com/sefedemircan/triz-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepository interface {
	Create(ctx context.Context, r *model.ProductRecipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductRecipe, error)
	// ListByProduct returns the product's recipe rows with StockItem preloaded
	// so callers see the live stock of every ingredient.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductRecipe, error)
	Update(ctx context.Context, r *model.ProductRecipe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) Create(ctx context.Context, rec *model.ProductRecipe) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recipeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductRecipe, error) {
	var rec model.ProductRecipe
	err := r.db.WithContext(ctx).Preload("StockItem").First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *recipeRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductRecipe, error) {
	var recipes []model.ProductRecipe
	err := r.db.WithContext(ctx).Preload("StockItem").
		Where("product_id = ?", productID).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) Update(ctx context.Context, rec *model.ProductRecipe) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *recipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductRecipe{}, "id = ?", id).Error
}
