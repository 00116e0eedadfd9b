package store

import (
	"context"
	"time"

	"kaskelas/internal/domain/billing"
	"kaskelas/internal/domain/expenses"
	"kaskelas/internal/domain/reports"
	"kaskelas/internal/domain/students"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Payments struct {
	db *gorm.DB
}

type PaymentFilter struct {
	Status     billing.Status
	StudentID  uint
	CategoryID uint
}

// Find loads a bill by order reference together with its student and category.
func (r Payments) Find(ctx context.Context, orderID string) (billing.Payment, error) {
	var p billing.Payment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Category").
		Where("id = ?", orderID).
		First(&p).Error
	return p, notFound(err)
}

func (r Payments) List(ctx context.Context, f PaymentFilter) ([]billing.Payment, error) {
	q := r.db.WithContext(ctx).Model(&billing.Payment{}).Preload("Student").Preload("Category")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StudentID != 0 {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	var out []billing.Payment
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// CreateBatch inserts new pending bills. Associations are never written.
func (r Payments) CreateBatch(ctx context.Context, bills []billing.Payment) error {
	if len(bills) == 0 {
		return nil
	}
	return duplicate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&bills).Error)
}

// Settle moves a pending bill to paid. It returns billing.ErrNotPending when
// no pending row matched, which is how a concurrent delivery that already
// settled the bill shows up.
func (r Payments) Settle(ctx context.Context, s billing.Settlement, now time.Time) error {
	completedAt := s.CompletedAt
	if completedAt.IsZero() {
		completedAt = now
	}
	updates := map[string]interface{}{
		"status":       billing.StatusPaid,
		"completed_at": completedAt,
		"updated_at":   now,
	}
	if s.PaymentMethod != "" {
		updates["payment_method"] = s.PaymentMethod
	}

	res := r.db.WithContext(ctx).Model(&billing.Payment{}).
		Where("id = ? AND status = ?", s.OrderID, billing.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return billing.ErrNotPending
	}
	return nil
}

// Cancel moves a pending bill to cancelled.
func (r Payments) Cancel(ctx context.Context, orderID string, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&billing.Payment{}).
		Where("id = ? AND status = ?", orderID, billing.StatusPending).
		Updates(map[string]interface{}{
			"status":     billing.StatusCancelled,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return billing.ErrNotPending
	}
	return nil
}

type statusTotal struct {
	Status billing.Status
	Amount int64
	Count  int64
}

// Totals aggregates bills, expenses and the active roster for the summary report.
func (r Payments) Totals(ctx context.Context) (reports.Totals, error) {
	db := r.db.WithContext(ctx)

	var rows []statusTotal
	err := db.Model(&billing.Payment{}).
		Select("status, COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
		Where("status IN ?", []billing.Status{billing.StatusPaid, billing.StatusPending}).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return reports.Totals{}, err
	}

	var t reports.Totals
	for _, row := range rows {
		switch row.Status {
		case billing.StatusPaid:
			t.PaidAmount, t.PaidCount = row.Amount, row.Count
		case billing.StatusPending:
			t.PendingAmount, t.PendingCount = row.Amount, row.Count
		}
	}

	var spent struct{ Amount int64 }
	if err := db.Model(&expenses.Expense{}).Select("COALESCE(SUM(amount), 0) AS amount").Scan(&spent).Error; err != nil {
		return reports.Totals{}, err
	}
	t.ExpenseAmount = spent.Amount

	if err := db.Model(&students.Student{}).Where("active = ?", true).Count(&t.ActiveStudents).Error; err != nil {
		return reports.Totals{}, err
	}
	return t, nil
}
