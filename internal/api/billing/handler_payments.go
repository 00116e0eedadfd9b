package billing

import (
	"errors"
	"net/http"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

// GET /api/payments
func (h *Handler) ListPayments(c *gin.Context) {
	var f store.PaymentFilter
	if raw := c.Query("status"); raw != "" {
		s, err := billing.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		f.Status = s
	}
	var ok bool
	if f.StudentID, ok = apiutil.QueryID(c, "student_id"); !ok {
		return
	}
	if f.CategoryID, ok = apiutil.QueryID(c, "category_id"); !ok {
		return
	}

	payments, err := h.Store.Payments.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GET /api/payments/:id
func (h *Handler) GetPayment(c *gin.Context) {
	p, err := h.Store.Payments.Find(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
		return
	}
	c.JSON(http.StatusOK, p)
}
