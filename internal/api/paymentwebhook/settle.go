package paymentwebhook

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/infra/pakasir"
	"kaskelas/internal/notify"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

func alreadySettled(c *gin.Context, orderID string) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Payment already settled",
		"order_id": orderID,
	})
}

// settle applies a verified completed transaction to its bill. Only a
// pending bill moves to paid; a paid bill is acknowledged untouched.
func (h *Handler) settle(c *gin.Context, p Payload, tx pakasir.Transaction) {
	ctx := c.Request.Context()

	bill, err := h.Payments.Find(ctx, tx.OrderID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "webhook payment lookup failed", "order_id", tx.OrderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	switch bill.Status {
	case billing.StatusPaid:
		alreadySettled(c, bill.ID)
		return
	case billing.StatusPending:
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "Payment is not pending"})
		return
	}
	if bill.Amount != tx.Amount {
		slog.WarnContext(ctx, "webhook amount differs from bill", "order_id", bill.ID, "bill_amount", bill.Amount, "amount", tx.Amount)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook"})
		return
	}

	now := h.now()
	st := billing.Settlement{
		OrderID:       bill.ID,
		Amount:        bill.Amount,
		PaymentMethod: firstNonEmpty(tx.PaymentMethod, p.PaymentMethod),
		CompletedAt:   completedAt(firstNonEmpty(tx.CompletedAt, p.CompletedAt), now),
	}
	entry := activity.BySystem(activity.PaymentSettled, "payment", bill.ID, map[string]interface{}{
		"amount":         bill.Amount,
		"payment_method": st.PaymentMethod,
		"student_id":     bill.StudentID,
		"category_id":    bill.CategoryID,
	})

	err = h.Payments.SettlePayment(ctx, st, now, entry)
	if errors.Is(err, billing.ErrNotPending) {
		// A concurrent delivery settled it first.
		alreadySettled(c, bill.ID)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "webhook settlement failed", "order_id", bill.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}
	settled, err := h.Payments.Find(ctx, bill.ID)
	if err != nil {
		// The settlement is committed; answer from the bill already in hand.
		slog.WarnContext(ctx, "could not reload settled payment", "order_id", bill.ID, "error", err)
		settled = bill.Settled(st, now)
	}
	slog.InfoContext(ctx, "payment settled", "order_id", settled.ID, "amount", settled.Amount)

	apiutil.InvalidateSummary(ctx, h.Cache)
	h.notify(c, settled)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Payment processed successfully",
		"order_id": settled.ID,
	})
}

func (h *Handler) notify(c *gin.Context, p billing.Payment) {
	if h.Notifier == nil || p.Student == nil || !p.Student.HasGuardianContact() {
		return
	}
	ctx := c.Request.Context()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "payment confirmation panicked", "order_id", p.ID, "panic", r)
		}
	}()
	if err := h.Notifier.PaymentConfirmed(ctx, p); err != nil && !errors.Is(err, notify.ErrNoContact) {
		slog.WarnContext(ctx, "payment confirmation not delivered", "order_id", p.ID, "error", err)
	}
}

func completedAt(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
