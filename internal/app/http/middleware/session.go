package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"kaskelas/internal/api/auth"

	"github.com/gin-gonic/gin"
)

// SessionGuard is the part of the session service the middleware needs.
type SessionGuard interface {
	Validate(ctx context.Context, token string) (auth.Principal, error)
	ClearCookie(c *gin.Context)
}

// RequireSession rejects API calls without a valid session with a JSON 401.
func RequireSession(guard SessionGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !attachPrincipal(c, guard) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Session expired, please log in again",
				"redirect": "/login",
			})
			return
		}
		c.Next()
	}
}

// RequirePageSession sends browsers without a valid session back to the login page.
func RequirePageSession(guard SessionGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !attachPrincipal(c, guard) {
			c.Redirect(http.StatusFound, "/login?expired=1")
			c.Abort()
			return
		}
		c.Next()
	}
}

func attachPrincipal(c *gin.Context, guard SessionGuard) bool {
	ctx := c.Request.Context()
	p, err := guard.Validate(ctx, auth.TokenFromRequest(c))
	if err != nil {
		// Plain rejections are routine; store failures arrive wrapped.
		if err != auth.ErrInvalidSession {
			slog.WarnContext(ctx, "session validation failed", "error", err)
		}
		if _, cerr := c.Cookie(auth.CookieName); cerr == nil {
			guard.ClearCookie(c)
		}
		return false
	}
	auth.WithPrincipal(c, p)
	return true
}

// EdgeGate redirects on cookie presence alone: protected pages without a
// cookie go to /login and /login with a cookie goes to /dashboard.
func EdgeGate(protected ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		_, err := c.Cookie(auth.CookieName)
		hasCookie := err == nil

		if !hasCookie && underAny(path, protected) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if hasCookie && (path == "/login" || path == "/login/") {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

func underAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again", "redirect": "/login"})
			return
		}
		if p.User.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}
