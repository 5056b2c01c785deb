package repository

import (
	"context"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create inserts the order with its items. Must run inside the caller's
	// transaction when tx is non-nil so order + items + stock writes commit together.
	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindActiveByTable(ctx context.Context, tableID uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	UpdatePaymentTx(tx *gorm.DB, id uuid.UUID, paymentMethod string) error
	UpdateNotesTx(tx *gorm.DB, id uuid.UUID, notes string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Table").
		Preload("User").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindActiveByTable(ctx context.Context, tableID uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("table_id = ? AND status IN ('active', 'ready')", tableID).
		Order("created_at DESC").
		First(&o).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TableID != "" {
		q = q.Where("table_id = ?", filter.TableID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Items.Product").Preload("Table").Preload("User").
		Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) UpdatePaymentTx(tx *gorm.DB, id uuid.UUID, paymentMethod string) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("payment_method", paymentMethod).Error
}

func (r *orderRepo) UpdateNotesTx(tx *gorm.DB, id uuid.UUID, notes string) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("notes", notes).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
