package reports

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kaskelas/internal/domain/reports"
	"kaskelas/internal/infra/cache"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	summaryTTL      = 5 * time.Minute
	defaultActivity = 20
	maxActivity     = 100
)

type Handler struct {
	Store *store.Store
	Cache cache.Cache
	Now   func() time.Time
}

func NewHandler(s *store.Store, c cache.Cache) *Handler {
	return &Handler{Store: s, Cache: c, Now: time.Now}
}

// GET /api/reports/summary
func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	if raw, ok, err := h.Cache.Get(ctx, reports.SummaryCacheKey); err != nil {
		slog.WarnContext(ctx, "report cache read failed", "error", err)
	} else if ok {
		var cached reports.Summary
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	totals, err := h.Store.Payments.Totals(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not compute report totals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}
	summary := reports.Build(totals, h.Now())

	if raw, err := json.Marshal(summary); err == nil {
		if err := h.Cache.Set(ctx, reports.SummaryCacheKey, string(raw), summaryTTL); err != nil {
			slog.WarnContext(ctx, "report cache write failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/reports/activity?limit=
func (h *Handler) Activity(c *gin.Context) {
	limit := defaultActivity
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxActivity)
	}

	logs, err := h.Store.Activity.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
