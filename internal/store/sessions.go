package store

import (
	"context"
	"time"

	"kaskelas/internal/domain/users"

	"gorm.io/gorm"
)

type Sessions struct {
	db *gorm.DB
}

func (r Sessions) Create(ctx context.Context, s *users.Session) error {
	return r.db.WithContext(ctx).Omit("User").Create(s).Error
}

// Get returns the session row regardless of expiry; callers decide validity.
func (r Sessions) Get(ctx context.Context, id string) (users.Session, error) {
	var s users.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	return s, notFound(err)
}

func (r Sessions) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&users.Session{}).Error
}

// PurgeExpired drops sessions whose window closed before now.
func (r Sessions) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&users.Session{})
	return res.RowsAffected, res.Error
}
