package repository

import (
	"context"

	"github.com/sefedemircan/triz-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockCategoryRepository interface {
	Create(ctx context.Context, c *model.StockCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockCategory, error)
	List(ctx context.Context) ([]model.StockCategory, error)
	Update(ctx context.Context, c *model.StockCategory) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type stockCategoryRepo struct{ db *gorm.DB }

func NewStockCategoryRepository(db *gorm.DB) StockCategoryRepository {
	return &stockCategoryRepo{db: db}
}

func (r *stockCategoryRepo) Create(ctx context.Context, c *model.StockCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *stockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockCategory, error) {
	var c model.StockCategory
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *stockCategoryRepo) List(ctx context.Context) ([]model.StockCategory, error) {
	var categories []model.StockCategory
	err := r.db.WithContext(ctx).Where("is_active = true").Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *stockCategoryRepo) Update(ctx context.Context, c *model.StockCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *stockCategoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.StockCategory{}).Where("id = ?", id).Update("is_active", false).Error
}
