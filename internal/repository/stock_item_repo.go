package repository

import (
	"context"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockItemRepository interface {
	Create(ctx context.Context, s *model.StockItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error)
	List(ctx context.Context, filter dto.StockItemFilter) ([]model.StockItem, int64, error)
	Update(ctx context.Context, s *model.StockItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// FindCritical returns active items at or below their minimum level,
	// lowest stock first.
	FindCritical(ctx context.Context) ([]model.StockItem, error)

	// FindExpiring returns every active item carrying an expiry date,
	// soonest first. Unpaged: the expiry sweep must see the whole inventory.
	FindExpiring(ctx context.Context) ([]model.StockItem, error)

	// FindForUpdateTx loads the row under SELECT … FOR UPDATE so that
	// check-and-decrement sequences are serialized per item.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.StockItem, error)

	// AdjustStockTx applies a signed delta to current_stock inside the
	// caller's transaction. The caller is responsible for holding the row
	// lock and having verified the result stays non-negative.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type stockItemRepo struct{ db *gorm.DB }

func NewStockItemRepository(db *gorm.DB) StockItemRepository { return &stockItemRepo{db: db} }

func (r *stockItemRepo) Create(ctx context.Context, s *model.StockItem) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *stockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error) {
	var s model.StockItem
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *stockItemRepo) List(ctx context.Context, filter dto.StockItemFilter) ([]model.StockItem, int64, error) {
	var items []model.StockItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockItem{})

	switch filter.Active {
	case "false":
		q = q.Where("is_active = false")
	case "all":
		// no filter
	default:
		q = q.Where("is_active = true")
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *stockItemRepo) Update(ctx context.Context, s *model.StockItem) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *stockItemRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.StockItem{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *stockItemRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.StockItem{}).Where("id = ?", id).Update("is_active", true).Error
}

func (r *stockItemRepo) FindCritical(ctx context.Context) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("current_stock <= min_stock_level AND is_active = true").
		Order("current_stock ASC").
		Find(&items).Error
	return items, err
}

func (r *stockItemRepo) FindExpiring(ctx context.Context) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND is_active = true").
		Order("expiry_date ASC").
		Find(&items).Error
	return items, err
}

func (r *stockItemRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.StockItem, error) {
	var s model.StockItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *stockItemRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.StockItem{}).Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", delta)).Error
}

func (r *stockItemRepo) DB() *gorm.DB { return r.db }
