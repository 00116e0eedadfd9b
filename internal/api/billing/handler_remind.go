package billing

import (
	"errors"
	"log/slog"
	"net/http"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/infra/whatsapp"
	"kaskelas/internal/notify"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

// POST /api/payments/:id/remind
func (h *Handler) RemindPayment(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.Store.Payments.Find(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
		return
	}
	if p.Status != billing.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Payment is not pending"})
		return
	}

	err = h.Notifier.PaymentReminder(ctx, p)
	switch {
	case errors.Is(err, notify.ErrNoContact):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student has no guardian phone number"})
		return
	case errors.Is(err, whatsapp.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp is not configured"})
		return
	case err != nil:
		slog.WarnContext(ctx, "reminder not delivered", "order_id", p.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not send reminder"})
		return
	}

	entry := activity.ByUser(apiutil.ActorID(c), activity.PaymentReminded, "payment", p.ID, nil)
	if err := h.Store.Activity.Append(ctx, &entry); err != nil {
		slog.WarnContext(ctx, "could not write activity entry", "action", entry.Action, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder sent", "order_id": p.ID})
}
