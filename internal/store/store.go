package store

import (
	"context"
	"errors"
	"time"

	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/domain/expenses"
	"kaskelas/internal/domain/notifications"
	"kaskelas/internal/domain/students"
	"kaskelas/internal/domain/users"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Models lists every table the application owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&users.Session{},
		&students.Student{},
		&billing.Category{},
		&billing.Payment{},
		&expenses.Expense{},
		&activity.Log{},
		&notifications.Message{},
	}
}

// Store groups the repositories over one *gorm.DB (or one transaction).
type Store struct {
	db *gorm.DB

	Users      Users
	Sessions   Sessions
	Students   Students
	Categories Categories
	Payments   Payments
	Expenses   Expenses
	Activity   Activity
	Messages   Messages
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      Users{db: db},
		Sessions:   Sessions{db: db},
		Students:   Students{db: db},
		Categories: Categories{db: db},
		Payments:   Payments{db: db},
		Expenses:   Expenses{db: db},
		Activity:   Activity{db: db},
		Messages:   Messages{db: db},
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx runs fn against a Store bound to a single transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// duplicate needs gorm.Config.TranslateError to see driver unique violations.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// SettlePayment applies a verified settlement and appends its audit entry in
// one transaction.
func (s *Store) SettlePayment(ctx context.Context, st billing.Settlement, now time.Time, entry activity.Log) error {
	return s.WithTx(ctx, func(tx *Store) error {
		if err := tx.Payments.Settle(ctx, st, now); err != nil {
			return err
		}
		return tx.Activity.Append(ctx, &entry)
	})
}
