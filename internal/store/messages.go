package store

import (
	"context"

	"kaskelas/internal/domain/notifications"

	"gorm.io/gorm"
)

type Messages struct {
	db *gorm.DB
}

func (r Messages) Record(ctx context.Context, m *notifications.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r Messages) ForPayment(ctx context.Context, paymentID string) ([]notifications.Message, error) {
	var out []notifications.Message
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("created_at ASC").Find(&out).Error
	return out, err
}
