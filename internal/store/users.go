package store

import (
	"context"
	"strings"

	"kaskelas/internal/domain/users"

	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func (r Users) FindByID(ctx context.Context, id uint) (users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return u, notFound(err)
}

func (r Users) FindByUsername(ctx context.Context, username string) (users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", normalizeUsername(username)).
		First(&u).Error
	return u, notFound(err)
}

func (r Users) FindByEmail(ctx context.Context, email string) (users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	return u, notFound(err)
}

func (r Users) List(ctx context.Context) ([]users.User, error) {
	var out []users.User
	err := r.db.WithContext(ctx).Order("username ASC").Find(&out).Error
	return out, err
}

// Create stores usernames lowercased so a case-only variant of an existing
// name fails on the unique index.
func (r Users) Create(ctx context.Context, u *users.User) error {
	u.Username = normalizeUsername(u.Username)
	return duplicate(r.db.WithContext(ctx).Create(u).Error)
}

// LinkGoogle stores the Google subject on first Google sign-in.
func (r Users) LinkGoogle(ctx context.Context, id uint, sub string) error {
	return r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ? AND google_sub IS NULL", id).
		Update("google_sub", sub).Error
}

func (r Users) FindByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).Where("google_sub = ?", sub).First(&u).Error
	return u, notFound(err)
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
