package repository

import (
	"context"
	"time"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"

	"gorm.io/gorm"
)

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a gorm-backed alert repository.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// ExistsSince answers the dedup-window check: is there already an alert for
// this position/action pair created after `since`?
func (r *alertRepository) ExistsSince(ctx context.Context, positionKey, action string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Alert{}).
		Where("position_key = ? AND action = ? AND created_at > ?", positionKey, action, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *alertRepository) List(ctx context.Context, param dto.ListAlertsParam) ([]entity.Alert, error) {
	var alerts []entity.Alert

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if !param.IncludeAcknowledged {
		query = query.Where("acknowledged = ?", false)
	}
	if param.Symbol != "" {
		query = query.Where("symbol = ?", param.Symbol)
	}

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) Acknowledge(ctx context.Context, id string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.Alert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"acknowledged":    true,
			"acknowledged_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *alertRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Alert{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
