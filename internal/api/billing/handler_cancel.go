package billing

import (
	"errors"
	"log/slog"
	"net/http"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

// POST /api/payments/:id/cancel
func (h *Handler) CancelPayment(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	p, err := h.Store.Payments.Find(ctx, orderID)
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

	entry := activity.ByUser(apiutil.ActorID(c), activity.PaymentCancelled, "payment", p.ID, map[string]interface{}{
		"amount": p.Amount,
	})
	err = h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Payments.Cancel(ctx, p.ID, h.now()); err != nil {
			return err
		}
		return tx.Activity.Append(ctx, &entry)
	})
	if errors.Is(err, billing.ErrNotPending) {
		c.JSON(http.StatusConflict, gin.H{"error": "Payment is not pending"})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "could not cancel bill", "order_id", p.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel payment"})
		return
	}
	apiutil.InvalidateSummary(ctx, h.Cache)

	c.JSON(http.StatusOK, gin.H{"message": "Payment cancelled", "order_id": p.ID})
}
