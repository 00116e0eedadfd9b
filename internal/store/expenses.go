package store

import (
	"context"
	"time"

	"kaskelas/internal/domain/expenses"

	"gorm.io/gorm"
)

type Expenses struct {
	db *gorm.DB
}

type ExpenseFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

func (r Expenses) List(ctx context.Context, f ExpenseFilter) ([]expenses.Expense, error) {
	q := r.db.WithContext(ctx).Model(&expenses.Expense{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.From != nil {
		q = q.Where("spent_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("spent_at < ?", *f.To)
	}
	var out []expenses.Expense
	err := q.Order("spent_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r Expenses) Get(ctx context.Context, id uint) (expenses.Expense, error) {
	var e expenses.Expense
	err := r.db.WithContext(ctx).First(&e, id).Error
	return e, notFound(err)
}

func (r Expenses) Create(ctx context.Context, e *expenses.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r Expenses) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&expenses.Expense{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Expenses) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&expenses.Expense{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
