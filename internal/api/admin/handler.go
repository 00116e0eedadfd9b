package admin

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"kaskelas/internal/api/apiutil"
	"kaskelas/internal/domain/activity"
	"kaskelas/internal/domain/users"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AdminUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	Google    bool      `json:"google_linked"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdminUser(u users.User) AdminUser {
	return AdminUser{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		Google:    u.GoogleSub != nil,
		CreatedAt: u.CreatedAt,
	}
}

type Handler struct {
	Store *store.Store
	// Cost is the bcrypt cost for new passwords.
	Cost int
}

func NewHandler(s *store.Store) *Handler {
	return &Handler{Store: s, Cost: bcrypt.DefaultCost}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// GET /api/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.Store.Users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		out = append(out, toAdminUser(u))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/admin/users
func (h *Handler) CreateUser(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, full name and password are required"})
		return
	}

	if !isPasswordStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}
	role := input.Role
	if role == "" {
		role = users.RoleTreasurer
	}
	if role != users.RoleAdmin && role != users.RoleTreasurer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	var email *string
	if e := strings.TrimSpace(input.Email); e != "" {
		if !emailPattern.MatchString(e) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}
		lower := strings.ToLower(e)
		email = &lower
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), h.Cost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	hashed := string(hashedPassword)

	u := users.User{
		Username:     strings.TrimSpace(input.Username),
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: &hashed,
		Role:         role,
		Active:       true,
	}
	ctx := c.Request.Context()
	err = h.Store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Users.Create(ctx, &u); err != nil {
			return err
		}
		entry := activity.ByUser(apiutil.ActorID(c), activity.UserCreated, "user", apiutil.EntityID(u.ID), map[string]interface{}{
			"username": u.Username,
			"role":     u.Role,
		})
		return tx.Activity.Append(ctx, &entry)
	})
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, toAdminUser(u))
}
