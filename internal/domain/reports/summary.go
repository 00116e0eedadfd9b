package reports

import "time"

// SummaryCacheKey is invalidated whenever income or expenses change.
const SummaryCacheKey = "kaskelas:reports:summary"

type Summary struct {
	Income         int64     `json:"income"`
	Expenses       int64     `json:"expenses"`
	Balance        int64     `json:"balance"`
	PaidCount      int64     `json:"paid_count"`
	PendingCount   int64     `json:"pending_count"`
	PendingAmount  int64     `json:"pending_amount"`
	ActiveStudents int64     `json:"active_students"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Totals are the raw aggregates read from the store.
type Totals struct {
	PaidAmount     int64
	PaidCount      int64
	PendingAmount  int64
	PendingCount   int64
	ExpenseAmount  int64
	ActiveStudents int64
}

func Build(t Totals, now time.Time) Summary {
	return Summary{
		Income:         t.PaidAmount,
		Expenses:       t.ExpenseAmount,
		Balance:        t.PaidAmount - t.ExpenseAmount,
		PaidCount:      t.PaidCount,
		PendingCount:   t.PendingCount,
		PendingAmount:  t.PendingAmount,
		ActiveStudents: t.ActiveStudents,
		GeneratedAt:    now,
	}
}
