package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"kaskelas/internal/domain/access"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type ActivityWriter interface {
	Append(ctx context.Context, l *activity.Log) error
}

type Handler struct {
	Sessions *Service
	Activity ActivityWriter
	Google   *Google
}

func NewHandler(sessions *Service, audit ActivityWriter, google *Google) *Handler {
	return &Handler{Sessions: sessions, Activity: audit, Google: google}
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil ||
		strings.TrimSpace(input.Username) == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Sessions.ValidateCredentials(ctx, input.Username, input.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			slog.ErrorContext(ctx, "credential check failed", "error", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	issued, ok := h.startSession(c, user)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      issued.Token,
		"expires_at": issued.Session.ExpiresAt,
		"user":       user.Summary(),
	})
}

// startSession persists a session, sets the cookie and records the login.
// The cookie is only set once the row is stored.
func (h *Handler) startSession(c *gin.Context, user users.User) (Issued, bool) {
	ctx := c.Request.Context()
	issued, err := h.Sessions.StartSession(ctx, user, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		slog.ErrorContext(ctx, "could not create session", "user_id", user.ID, "error", err)
		return Issued{}, false
	}
	h.Sessions.SetCookie(c, issued.Token, issued.Session.ExpiresAt)

	entry := activity.ByUser(user.ID, activity.UserLoggedIn, "user", strconv.FormatUint(uint64(user.ID), 10), map[string]interface{}{
		"ip": c.ClientIP(),
	})
	h.audit(ctx, &entry)
	return issued, true
}

// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	token := TokenFromRequest(c)

	var userID uint
	if token != "" {
		if _, uid, err := h.Sessions.Tokens.Decode(token); err == nil {
			userID = uid
		}
		if _, err := h.Sessions.End(ctx, token); err != nil {
			slog.WarnContext(ctx, "logout could not delete session", "error", err)
		}
	}

	h.Sessions.ClearCookie(c)
	if userID != 0 {
		entry := activity.ByUser(userID, activity.UserLoggedOut, "user", strconv.FormatUint(uint64(userID), 10), nil)
		h.audit(ctx, &entry)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": "/login"})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	p, ok := PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again", "redirect": "/login"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         p.User.Summary(),
		"expires_at":   p.Session.ExpiresAt,
		"capabilities": access.CapabilitiesFor(p.User.Role),
	})
}

func (h *Handler) audit(ctx context.Context, l *activity.Log) {
	if h.Activity == nil {
		return
	}
	if err := h.Activity.Append(ctx, l); err != nil {
		slog.WarnContext(ctx, "could not write activity entry", "action", l.Action, "error", err)
	}
}
