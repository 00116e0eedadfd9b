package store

import (
	"context"

	"kaskelas/internal/domain/billing"

	"gorm.io/gorm"
)

type Categories struct {
	db *gorm.DB
}

func (r Categories) List(ctx context.Context) ([]billing.Category, error) {
	var out []billing.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r Categories) Get(ctx context.Context, id uint) (billing.Category, error) {
	var c billing.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	return c, notFound(err)
}

func (r Categories) Create(ctx context.Context, c *billing.Category) error {
	return duplicate(r.db.WithContext(ctx).Create(c).Error)
}

func (r Categories) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&billing.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return duplicate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
