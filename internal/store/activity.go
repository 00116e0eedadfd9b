package store

import (
	"context"

	"kaskelas/internal/domain/activity"

	"gorm.io/gorm"
)

type Activity struct {
	db *gorm.DB
}

func (r Activity) Append(ctx context.Context, l *activity.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// Recent returns the newest entries first.
func (r Activity) Recent(ctx context.Context, limit int) ([]activity.Log, error) {
	var out []activity.Log
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r Activity) CountFor(ctx context.Context, entityType, entityID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&activity.Log{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&n).Error
	return n, err
}
