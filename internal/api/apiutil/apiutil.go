// Package apiutil holds the small helpers every dashboard handler shares.
package apiutil

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kaskelas/internal/api/auth"
	"kaskelas/internal/domain/reports"
	"kaskelas/internal/infra/cache"

	"github.com/gin-gonic/gin"
)

// ParseID reads a numeric path parameter, answering 400 when it is not one.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// QueryID reads an optional numeric query parameter; absent is zero.
func QueryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// ActorID is the user behind the current request, zero when unauthenticated.
func ActorID(c *gin.Context) uint {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return 0
	}
	return p.User.ID
}

func EntityID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// InvalidateSummary drops the cached report summary. Failures only log.
func InvalidateSummary(ctx context.Context, c cache.Cache) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, reports.SummaryCacheKey); err != nil {
		slog.WarnContext(ctx, "could not invalidate report cache", "error", err)
	}
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
