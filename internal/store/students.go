package store

import (
	"context"

	"kaskelas/internal/domain/students"

	"gorm.io/gorm"
)

type Students struct {
	db *gorm.DB
}

func (r Students) List(ctx context.Context, includeInactive bool) ([]students.Student, error) {
	q := r.db.WithContext(ctx).Model(&students.Student{})
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var out []students.Student
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r Students) Get(ctx context.Context, id uint) (students.Student, error) {
	var s students.Student
	err := r.db.WithContext(ctx).First(&s, id).Error
	return s, notFound(err)
}

// FindMany returns the active students among ids.
func (r Students) FindMany(ctx context.Context, ids []uint) ([]students.Student, error) {
	var out []students.Student
	err := r.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r Students) Create(ctx context.Context, s *students.Student) error {
	return duplicate(r.db.WithContext(ctx).Create(s).Error)
}

func (r Students) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&students.Student{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return duplicate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
