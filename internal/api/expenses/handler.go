package expenses

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/expenses"
	"kaskelas/internal/infra/cache"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *store.Store
	Cache cache.Cache
	Now   func() time.Time
}

func NewHandler(s *store.Store, c cache.Cache) *Handler {
	return &Handler{Store: s, Cache: c, Now: time.Now}
}

type expenseInput struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Amount   *int64  `json:"amount"`
	SpentAt  *string `json:"spent_at"`
	Notes    *string `json:"notes"`
}

// GET /api/expenses?category=&from=&to=
func (h *Handler) List(c *gin.Context) {
	f := store.ExpenseFilter{Category: c.Query("category")}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, ok := apiutil.ParseDate(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + q.name + " date"})
			return
		}
		*q.dst = &t
	}

	list, err := h.Store.Expenses.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load expenses"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/expenses
func (h *Handler) Create(c *gin.Context) {
	var input expenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	if input.Amount == nil || *input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	spentAt := h.Now()
	if input.SpentAt != nil && *input.SpentAt != "" {
		t, ok := apiutil.ParseDate(*input.SpentAt)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spent_at date"})
			return
		}
		spentAt = t
	}

	e := expenses.Expense{
		Title:       strings.TrimSpace(*input.Title),
		Amount:      *input.Amount,
		SpentAt:     spentAt,
		CreatedByID: apiutil.ActorID(c),
	}
	if input.Category != nil {
		e.Category = strings.TrimSpace(*input.Category)
	}
	if input.Notes != nil {
		e.Notes = *input.Notes
	}

	ctx := c.Request.Context()
	err := h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Expenses.Create(ctx, &e); err != nil {
			return err
		}
		entry := activity.ByUser(e.CreatedByID, activity.ExpenseCreated, "expense", apiutil.EntityID(e.ID), map[string]interface{}{
			"title":  e.Title,
			"amount": e.Amount,
		})
		return tx.Activity.Append(ctx, &entry)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}
	apiutil.InvalidateSummary(ctx, h.Cache)
	c.JSON(http.StatusCreated, e)
}

// PUT /api/expenses/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}
	var input expenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
			return
		}
		updates["amount"] = *input.Amount
	}
	if input.SpentAt != nil {
		t, ok := apiutil.ParseDate(*input.SpentAt)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spent_at date"})
			return
		}
		updates["spent_at"] = t
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx := c.Request.Context()
	err := h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Expenses.Update(ctx, id, updates); err != nil {
			return err
		}
		entry := activity.ByUser(apiutil.ActorID(c), activity.ExpenseUpdated, "expense", apiutil.EntityID(id), updates)
		return tx.Activity.Append(ctx, &entry)
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}
	apiutil.InvalidateSummary(ctx, h.Cache)

	e, err := h.Store.Expenses.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load expense"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// DELETE /api/expenses/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Expenses.Delete(ctx, id); err != nil {
			return err
		}
		entry := activity.ByUser(apiutil.ActorID(c), activity.ExpenseDeleted, "expense", apiutil.EntityID(id), nil)
		return tx.Activity.Append(ctx, &entry)
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	apiutil.InvalidateSummary(ctx, h.Cache)
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}
