package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/domain/expenses"
	"kaskelas/internal/domain/students"
	"kaskelas/internal/domain/users"
	"kaskelas/internal/store"
	"kaskelas/internal/store/storetest"
)

var t0 = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

func seedBill(t *testing.T, s *store.Store, orderID string, amount int64) billing.Payment {
	t.Helper()
	ctx := context.Background()

	st := students.Student{Name: "Budi", StudentNumber: "S-" + orderID, GuardianName: "Pak Budi", GuardianPhone: "081234567890", Active: true}
	if err := s.Students.Create(ctx, &st); err != nil {
		t.Fatalf("create student: %v", err)
	}
	cat := billing.Category{Name: "Kas " + orderID, DefaultAmount: amount, Active: true}
	if err := s.Categories.Create(ctx, &cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	bill := billing.Payment{
		ID:         orderID,
		StudentID:  st.ID,
		CategoryID: cat.ID,
		Amount:     amount,
		Status:     billing.StatusPending,
	}
	if err := s.Payments.CreateBatch(ctx, []billing.Payment{bill}); err != nil {
		t.Fatalf("create bill: %v", err)
	}
	return bill
}

func TestSettlePaymentWritesBillAndAudit(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	seedBill(t, s, "KAS202403000123", 50000)

	paidAt := t0.Add(-time.Minute)
	entry := activity.BySystem(activity.PaymentSettled, "payment", "KAS202403000123", map[string]interface{}{"amount": 50000})
	err := s.SettlePayment(ctx, billing.Settlement{
		OrderID:       "KAS202403000123",
		Amount:        50000,
		PaymentMethod: "qris",
		CompletedAt:   paidAt,
	}, t0, entry)
	if err != nil {
		t.Fatalf("SettlePayment: %v", err)
	}
	got, err := s.Payments.Find(ctx, "KAS202403000123")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	if got.Status != billing.StatusPaid {
		t.Fatalf("status = %s, want paid", got.Status)
	}
	if got.PaymentMethod == nil || *got.PaymentMethod != "qris" {
		t.Fatalf("payment method = %v", got.PaymentMethod)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(paidAt) {
		t.Fatalf("completed at = %v, want %v", got.CompletedAt, paidAt)
	}
	if got.Student == nil || got.Student.Name != "Budi" {
		t.Fatalf("student not preloaded: %+v", got.Student)
	}

	n, err := s.Activity.CountFor(ctx, "payment", "KAS202403000123")
	if err != nil {
		t.Fatalf("CountFor: %v", err)
	}
	if n != 1 {
		t.Fatalf("activity entries = %d, want 1", n)
	}
}

func TestSettlePaymentTwiceIsRejectedWithoutSecondAudit(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	seedBill(t, s, "KAS202403000124", 25000)

	st := billing.Settlement{OrderID: "KAS202403000124", Amount: 25000, PaymentMethod: "va"}
	entry := activity.BySystem(activity.PaymentSettled, "payment", st.OrderID, nil)
	if err := s.SettlePayment(ctx, st, t0, entry); err != nil {
		t.Fatalf("first settle: %v", err)
	}

	entry = activity.BySystem(activity.PaymentSettled, "payment", st.OrderID, nil)
	err := s.SettlePayment(ctx, st, t0.Add(time.Second), entry)
	if !errors.Is(err, billing.ErrNotPending) {
		t.Fatalf("second settle err = %v, want ErrNotPending", err)
	}

	n, _ := s.Activity.CountFor(ctx, "payment", st.OrderID)
	if n != 1 {
		t.Fatalf("activity entries = %d, want 1", n)
	}
}

func TestSettleFallsBackToNowWithoutTimestamp(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	seedBill(t, s, "KAS202403000125", 10000)

	err := s.SettlePayment(ctx, billing.Settlement{OrderID: "KAS202403000125", Amount: 10000}, t0,
		activity.BySystem(activity.PaymentSettled, "payment", "KAS202403000125", nil))
	if err != nil {
		t.Fatalf("SettlePayment: %v", err)
	}
	got, err := s.Payments.Find(ctx, "KAS202403000125")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(t0) {
		t.Fatalf("completed at = %v, want %v", got.CompletedAt, t0)
	}
	if got.PaymentMethod != nil {
		t.Fatalf("payment method should stay unset, got %q", *got.PaymentMethod)
	}
}

func TestCancelOnlyPending(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	seedBill(t, s, "KAS202403000126", 10000)

	if err := s.Payments.Cancel(ctx, "KAS202403000126", t0); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := s.Payments.Cancel(ctx, "KAS202403000126", t0); !errors.Is(err, billing.ErrNotPending) {
		t.Fatalf("second cancel err = %v", err)
	}
	err := s.Payments.Settle(ctx, billing.Settlement{OrderID: "KAS202403000126", Amount: 10000}, t0)
	if !errors.Is(err, billing.ErrNotPending) {
		t.Fatalf("settle after cancel err = %v", err)
	}
}

func TestFindMissingPayment(t *testing.T) {
	s := storetest.Open(t)
	_, err := s.Payments.Find(context.Background(), "KAS000000000000")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTotals(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	seedBill(t, s, "KAS202403000001", 50000)
	seedBill(t, s, "KAS202403000002", 30000)
	seedBill(t, s, "KAS202403000003", 20000)

	if err := s.Payments.Settle(ctx, billing.Settlement{OrderID: "KAS202403000001"}, t0); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if err := s.Payments.Cancel(ctx, "KAS202403000003", t0); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := s.Expenses.Create(ctx, &expenses.Expense{Title: "Spidol", Category: "ATK", Amount: 12000, SpentAt: t0}); err != nil {
		t.Fatalf("expense: %v", err)
	}

	got, err := s.Payments.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if got.PaidAmount != 50000 || got.PaidCount != 1 {
		t.Errorf("paid = %d/%d", got.PaidAmount, got.PaidCount)
	}
	if got.PendingAmount != 30000 || got.PendingCount != 1 {
		t.Errorf("pending = %d/%d", got.PendingAmount, got.PendingCount)
	}
	if got.ExpenseAmount != 12000 {
		t.Errorf("expenses = %d", got.ExpenseAmount)
	}
	if got.ActiveStudents != 3 {
		t.Errorf("active students = %d", got.ActiveStudents)
	}
}

func TestSessionsLifecycle(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()

	u := users.User{Username: "bendahara", FullName: "Bendahara", Role: users.RoleTreasurer, Active: true}
	if err := s.Users.Create(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	live := users.Session{ID: "live", UserID: u.ID, ExpiresAt: t0.Add(users.SessionTTL), CreatedAt: t0}
	dead := users.Session{ID: "dead", UserID: u.ID, ExpiresAt: t0.Add(-time.Minute), CreatedAt: t0.Add(-users.SessionTTL)}
	for _, sess := range []*users.Session{&live, &dead} {
		if err := s.Sessions.Create(ctx, sess); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	n, err := s.Sessions.PurgeExpired(ctx, t0)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}
	if _, err := s.Sessions.Get(ctx, "dead"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expired session still present: %v", err)
	}

	if err := s.Sessions.Delete(ctx, "live"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Sessions.Get(ctx, "live"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("deleted session still present: %v", err)
	}
}

func TestFindByUsernameIgnoresCase(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	if err := s.Users.Create(ctx, &users.User{Username: "Admin", FullName: "Admin", Role: users.RoleAdmin, Active: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	u, err := s.Users.FindByUsername(ctx, " admin ")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if u.Username != "admin" {
		t.Fatalf("got %q", u.Username)
	}
}

func TestUsernamesDifferingOnlyInCaseCollide(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	if err := s.Users.Create(ctx, &users.User{Username: "Budi", FullName: "Budi", Role: users.RoleTreasurer, Active: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.Users.Create(ctx, &users.User{Username: "budi", FullName: "Budi Lain", Role: users.RoleTreasurer, Active: true})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("second create err = %v, want ErrDuplicate", err)
	}
}
