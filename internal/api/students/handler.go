package students

import (
	"errors"
	"net/http"
	"strings"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/students"
	"kaskelas/internal/infra/cache"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *store.Store
	Cache cache.Cache
}

func NewHandler(s *store.Store, c cache.Cache) *Handler {
	return &Handler{Store: s, Cache: c}
}

type studentInput struct {
	Name          *string `json:"name"`
	StudentNumber *string `json:"student_number"`
	GuardianName  *string `json:"guardian_name"`
	GuardianPhone *string `json:"guardian_phone"`
	Active        *bool   `json:"active"`
}

// GET /api/students
func (h *Handler) List(c *gin.Context) {
	list, err := h.Store.Students.List(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load students"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/students/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}
	st, err := h.Store.Students.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/students
func (h *Handler) Create(c *gin.Context) {
	var input studentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	name, number := trimmed(input.Name), trimmed(input.StudentNumber)
	if name == "" || number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and student number are required"})
		return
	}

	st := students.Student{
		Name:          name,
		StudentNumber: number,
		GuardianName:  trimmed(input.GuardianName),
		GuardianPhone: trimmed(input.GuardianPhone),
		Active:        true,
	}
	ctx := c.Request.Context()
	err := h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Students.Create(ctx, &st); err != nil {
			return err
		}
		entry := activity.ByUser(apiutil.ActorID(c), activity.StudentCreated, "student", apiutil.EntityID(st.ID), map[string]interface{}{
			"name":           st.Name,
			"student_number": st.StudentNumber,
		})
		return tx.Activity.Append(ctx, &entry)
	})
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Student number already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student"})
		return
	}
	apiutil.InvalidateSummary(ctx, h.Cache)
	c.JSON(http.StatusCreated, st)
}

// PUT /api/students/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}
	var input studentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		if trimmed(input.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}
		updates["name"] = trimmed(input.Name)
	}
	if input.StudentNumber != nil {
		if trimmed(input.StudentNumber) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Student number is required"})
			return
		}
		updates["student_number"] = trimmed(input.StudentNumber)
	}
	if input.GuardianName != nil {
		updates["guardian_name"] = trimmed(input.GuardianName)
	}
	if input.GuardianPhone != nil {
		updates["guardian_phone"] = trimmed(input.GuardianPhone)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	h.apply(c, id, activity.StudentUpdated, updates)
}

// DELETE /api/students/:id
// Students are deactivated, never removed, so their bills keep resolving.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}
	h.apply(c, id, activity.StudentRemoved, map[string]interface{}{"active": false})
}

func (h *Handler) apply(c *gin.Context, id uint, action string, updates map[string]interface{}) {
	ctx := c.Request.Context()
	err := h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Students.Update(ctx, id, updates); err != nil {
			return err
		}
		entry := activity.ByUser(apiutil.ActorID(c), action, "student", apiutil.EntityID(id), updates)
		return tx.Activity.Append(ctx, &entry)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Student number already exists"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		return
	}
	apiutil.InvalidateSummary(ctx, h.Cache)

	st, err := h.Store.Students.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
