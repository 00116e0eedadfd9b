package billing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/domain/students"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

// POST /api/payments
// Issues one pending bill per student for a category.
func (h *Handler) IssuePayments(c *gin.Context) {
	var input struct {
		StudentIDs []uint `json:"student_ids" binding:"required,min=1"`
		CategoryID uint   `json:"category_id" binding:"required"`
		Amount     *int64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_ids and category_id are required"})
		return
	}
	ctx := c.Request.Context()

	category, err := h.Store.Categories.Get(ctx, input.CategoryID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !category.Active) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown or inactive category"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		return
	}

	amount := category.DefaultAmount
	if input.Amount != nil {
		amount = *input.Amount
	}
	if amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	ids := uniqueIDs(input.StudentIDs)
	found, err := h.Store.Students.FindMany(ctx, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load students"})
		return
	}
	if len(found) != len(ids) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown or inactive student"})
		return
	}

	now := h.now()
	actor := apiutil.ActorID(c)
	var bills []billing.Payment
	for attempt := 0; attempt < issueAttempts; attempt++ {
		bills = h.newBills(now, attempt*len(found), found, category, amount)
		err = h.Store.WithTx(ctx, func(tx *store.Store) error {
			return createBills(ctx, tx, actor, bills)
		})
		if !errors.Is(err, store.ErrDuplicate) {
			break
		}
		slog.WarnContext(ctx, "order reference collision, retrying", "attempt", attempt+1, "count", len(bills))
	}
	if err != nil {
		slog.ErrorContext(ctx, "could not issue bills", "count", len(bills), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payments"})
		return
	}
	apiutil.InvalidateSummary(ctx, h.Cache)

	for i := range bills {
		st := found[i]
		bills[i].Student = &st
		bills[i].Category = &category
	}
	c.JSON(http.StatusCreated, gin.H{"payments": bills})
}

// issueAttempts bounds retries when a batch collides with references taken
// by another batch issued in the same milliseconds.
const issueAttempts = 3

func (h *Handler) newBills(now time.Time, skip int, found []students.Student, category billing.Category, amount int64) []billing.Payment {
	orderIDs := billing.OrderIDsAfter(now, skip, len(found))
	bills := make([]billing.Payment, 0, len(found))
	for i, st := range found {
		bills = append(bills, billing.Payment{
			ID:         orderIDs[i],
			StudentID:  st.ID,
			CategoryID: category.ID,
			Amount:     amount,
			Status:     billing.StatusPending,
			PaymentURL: h.Gateway.PaymentURL(amount, orderIDs[i], h.RedirectURL),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return bills
}

func createBills(ctx context.Context, tx *store.Store, actor uint, bills []billing.Payment) error {
	if err := tx.Payments.CreateBatch(ctx, bills); err != nil {
		return err
	}
	for _, b := range bills {
		entry := activity.ByUser(actor, activity.PaymentIssued, "payment", b.ID, map[string]interface{}{
			"amount":      b.Amount,
			"student_id":  b.StudentID,
			"category_id": b.CategoryID,
		})
		if err := tx.Activity.Append(ctx, &entry); err != nil {
			return err
		}
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
