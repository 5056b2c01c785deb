package repository

import (
	"context"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementRepository is insert-and-read only. The ledger has no update or
// delete path: corrections are new compensating rows.
type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error)

	// FindByReferenceTx returns the movements written for one referenced event
	// (e.g. all "out" rows of an order), inside the caller's transaction.
	FindByReferenceTx(tx *gorm.DB, referenceType string, referenceID uuid.UUID, movementType string) ([]model.StockMovement, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Preload("StockItem")
	if filter.StockItemID != "" {
		q = q.Where("stock_item_id = ?", filter.StockItemID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.ReferenceType != "" {
		q = q.Where("reference_type = ?", filter.ReferenceType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}

func (r *stockMovementRepo) FindByReferenceTx(tx *gorm.DB, referenceType string, referenceID uuid.UUID, movementType string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	q := tx.Where("reference_type = ? AND reference_id = ?", referenceType, referenceID)
	if movementType != "" {
		q = q.Where("type = ?", movementType)
	}
	err := q.Order("created_at ASC").Find(&movements).Error
	return movements, err
}
