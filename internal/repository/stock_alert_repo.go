package repository

import (
	"context"
	"time"

	"github.com/sefedemircan/triz-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockAlertRepository interface {
	Create(ctx context.Context, a *model.StockAlert) error
	List(ctx context.Context, includeAcknowledged bool) ([]model.StockAlert, error)
	Acknowledge(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	// HasOpenAlert reports whether an unresolved alert of this type already
	// exists for the item, so deductions do not pile up duplicate alerts.
	HasOpenAlert(ctx context.Context, stockItemID uuid.UUID, alertType string) (bool, error)
}

type stockAlertRepo struct{ db *gorm.DB }

func NewStockAlertRepository(db *gorm.DB) StockAlertRepository { return &stockAlertRepo{db: db} }

func (r *stockAlertRepo) Create(ctx context.Context, a *model.StockAlert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *stockAlertRepo) List(ctx context.Context, includeAcknowledged bool) ([]model.StockAlert, error) {
	var alerts []model.StockAlert
	q := r.db.WithContext(ctx).Preload("StockItem").Where("is_resolved = false")
	if !includeAcknowledged {
		q = q.Where("is_acknowledged = false")
	}
	err := q.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *stockAlertRepo) Acknowledge(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.StockAlert{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_acknowledged": true,
			"acknowledged_by": userID,
			"acknowledged_at": now,
		}).Error
}

func (r *stockAlertRepo) HasOpenAlert(ctx context.Context, stockItemID uuid.UUID, alertType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockAlert{}).
		Where("stock_item_id = ? AND alert_type = ? AND is_resolved = false", stockItemID, alertType).
		Count(&count).Error
	return count > 0, err
}
