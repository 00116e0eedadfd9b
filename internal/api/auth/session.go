package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"kaskelas/internal/domain/users"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const CookieName = "kaskelas_session"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("session is missing or expired")
)

type UserStore interface {
	FindByID(ctx context.Context, id uint) (users.User, error)
	FindByUsername(ctx context.Context, username string) (users.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *users.Session) error
	Get(ctx context.Context, id string) (users.Session, error)
	Delete(ctx context.Context, id string) error
}

// Principal is the authenticated caller of one request.
type Principal struct {
	User    users.User
	Session users.Session
}

// Issued is what the session writer hands back after a successful login.
type Issued struct {
	Token   string
	Session users.Session
}

type Service struct {
	Users        UserStore
	Sessions     SessionStore
	Tokens       *TokenCodec
	Now          func() time.Time
	CookieSecure bool
}

func NewService(s *store.Store, secret string, cookieSecure bool) *Service {
	return &Service{
		Users:        s.Users,
		Sessions:     s.Sessions,
		Tokens:       NewTokenCodec(secret, time.Now),
		Now:          time.Now,
		CookieSecure: cookieSecure,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so unknown usernames cost the
// same as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("kaskelas-timing-pad"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// ValidateCredentials checks a username/password pair against an active user.
// Every rejection is ErrInvalidCredentials; other errors come from the store.
func (s *Service) ValidateCredentials(ctx context.Context, username, password string) (users.User, error) {
	u, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		equalizeTiming(password)
		if errors.Is(err, store.ErrNotFound) {
			return users.User{}, ErrInvalidCredentials
		}
		return users.User{}, fmt.Errorf("find user: %w", err)
	}
	if !u.Active || u.PasswordHash == nil || *u.PasswordHash == "" {
		equalizeTiming(password)
		return users.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return users.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// StartSession mints and persists a session for u. Nothing is returned unless
// the row was stored.
func (s *Service) StartSession(ctx context.Context, u users.User, userAgent, ip string) (Issued, error) {
	id, err := newSessionID()
	if err != nil {
		return Issued{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now()
	sess := users.Session{
		ID:        id,
		UserID:    u.ID,
		ExpiresAt: now.Add(users.SessionTTL),
		UserAgent: truncate(userAgent, 255),
		IP:        ip,
		CreatedAt: now,
	}

	token, err := s.Tokens.Encode(sess.ID, u.ID, sess.ExpiresAt)
	if err != nil {
		return Issued{}, fmt.Errorf("sign session token: %w", err)
	}
	if err := s.Sessions.Create(ctx, &sess); err != nil {
		return Issued{}, fmt.Errorf("store session: %w", err)
	}
	return Issued{Token: token, Session: sess}, nil
}

// Validate resolves a token to its principal. Absent, expired, revoked and
// forged tokens are all ErrInvalidSession.
func (s *Service) Validate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrInvalidSession
	}
	sessionID, userID, err := s.Tokens.Decode(token)
	if err != nil {
		return Principal{}, ErrInvalidSession
	}

	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Principal{}, ErrInvalidSession
		}
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if sess.UserID != userID || !sess.ValidAt(s.now()) {
		return Principal{}, ErrInvalidSession
	}

	u, err := s.Users.FindByID(ctx, sess.UserID)
	if err != nil || !u.Active {
		return Principal{}, ErrInvalidSession
	}
	return Principal{User: u, Session: sess}, nil
}

// End deletes the session behind token. A token that no longer decodes has
// nothing to delete.
func (s *Service) End(ctx context.Context, token string) (string, error) {
	sessionID, _, err := s.Tokens.Decode(token)
	if err != nil {
		return "", nil
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return sessionID, fmt.Errorf("delete session: %w", err)
	}
	return sessionID, nil
}

func (s *Service) SetCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(s.now()).Seconds())
	if maxAge <= 0 {
		maxAge = int(users.SessionTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", s.CookieSecure, true)
}

func (s *Service) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.CookieSecure, true)
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

const principalKey = "kaskelas.principal"

func WithPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
