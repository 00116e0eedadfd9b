package billing

import (
	"errors"
	"net/http"
	"strings"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/billing"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.Store.Categories.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

// POST /api/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var input struct {
		Name          string `json:"name" binding:"required"`
		Description   string `json:"description"`
		DefaultAmount int64  `json:"default_amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	if input.DefaultAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	ctx := c.Request.Context()
	cat := billing.Category{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		DefaultAmount: input.DefaultAmount,
		Active:        true,
	}
	err := h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Categories.Create(ctx, &cat); err != nil {
			return err
		}
		entry := activity.ByUser(apiutil.ActorID(c), activity.CategoryCreated, "category", apiutil.EntityID(cat.ID), map[string]interface{}{
			"name":           cat.Name,
			"default_amount": cat.DefaultAmount,
		})
		return tx.Activity.Append(ctx, &entry)
	})
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Category name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// PUT /api/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		DefaultAmount *int64  `json:"default_amount"`
		Active        *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DefaultAmount != nil {
		if *input.DefaultAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
			return
		}
		updates["default_amount"] = *input.DefaultAmount
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx := c.Request.Context()
	err := h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Categories.Update(ctx, id, updates); err != nil {
			return err
		}
		entry := activity.ByUser(apiutil.ActorID(c), activity.CategoryUpdated, "category", apiutil.EntityID(id), updates)
		return tx.Activity.Append(ctx, &entry)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Category name already exists"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	cat, err := h.Store.Categories.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		return
	}
	c.JSON(http.StatusOK, cat)
}
