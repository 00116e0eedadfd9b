package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"kaskelas/internal/domain/users"
	"kaskelas/internal/store"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

type GoogleUserStore interface {
	FindByGoogleSub(ctx context.Context, sub string) (users.User, error)
	FindByEmail(ctx context.Context, email string) (users.User, error)
	LinkGoogle(ctx context.Context, id uint, sub string) error
}

// Google signs existing users in with their Google account. Accounts are
// never created here.
type Google struct {
	OAuth *oauth2.Config
	Users GoogleUserStore
}

// NewGoogle returns nil when no client ID is configured.
func NewGoogle(clientID, clientSecret, redirectURL string, u GoogleUserStore) *Google {
	if clientID == "" {
		return nil
	}
	return &Google{
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		Users: u,
	}
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /api/auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	if h.Google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not enabled"})
		return
	}
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("oauth_state", state, 300, "/", "", h.Sessions.CookieSecure, true)
	c.Redirect(http.StatusFound, h.Google.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /api/auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not enabled"})
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}
	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", h.Sessions.CookieSecure, true)

	ctx := c.Request.Context()
	tok, err := h.Google.OAuth.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	claims, err := h.Google.verify(ctx, rawIDToken)
	if err != nil {
		slog.WarnContext(ctx, "google id token rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id_token"})
		return
	}

	user, err := h.Google.resolveUser(ctx, claims)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			slog.ErrorContext(ctx, "google sign-in lookup failed", "error", err)
		}
		c.Redirect(http.StatusFound, "/login?error=google")
		return
	}

	if _, ok := h.startSession(c, user); !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (g *Google) verify(ctx context.Context, rawIDToken string) (googleIDClaims, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return googleIDClaims{}, errors.New("failed to init google oidc provider")
	}
	idToken, err := provider.Verifier(&oidc.Config{ClientID: g.OAuth.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return googleIDClaims{}, err
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return googleIDClaims{}, errors.New("failed to decode token claims")
	}
	if claims.Sub == "" || claims.Email == "" || !claims.EmailVerified {
		return googleIDClaims{}, errors.New("token missing verified email")
	}
	return claims, nil
}

// resolveUser matches a Google identity to an active user, linking the
// Google subject on first use.
func (g *Google) resolveUser(ctx context.Context, gc googleIDClaims) (users.User, error) {
	u, err := g.Users.FindByGoogleSub(ctx, gc.Sub)
	if err == nil {
		if !u.Active {
			return users.User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return users.User{}, err
	}

	u, err = g.Users.FindByEmail(ctx, gc.Email)
	if errors.Is(err, store.ErrNotFound) {
		return users.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return users.User{}, err
	}
	if !u.Active || (u.GoogleSub != nil && *u.GoogleSub != gc.Sub) {
		return users.User{}, ErrInvalidCredentials
	}
	if u.GoogleSub == nil {
		if err := g.Users.LinkGoogle(ctx, u.ID, gc.Sub); err != nil {
			return users.User{}, err
		}
		sub := gc.Sub
		u.GoogleSub = &sub
	}
	return u, nil
}
