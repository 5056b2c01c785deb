package repository

import (
	"context"

	"github.com/sefedemircan/triz-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository interface {
	Create(ctx context.Context, t *model.Table) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error)
	FindByNumber(ctx context.Context, number int) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	Update(ctx context.Context, t *model.Table) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// UpdateStatusTx flips table status inside an order transaction.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) Create(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tableRepo) FindByNumber(ctx context.Context, number int) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("table_number = ?", number).First(&t).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).Order("table_number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) Update(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Table{}, "id = ?", id).Error
}

func (r *tableRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Table{}).Where("id = ?", id).Update("status", status).Error
}

func (r *tableRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Table{}).Where("id = ?", id).Update("status", status).Error
}
