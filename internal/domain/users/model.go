package users

import "time"

const (
	RoleAdmin     = "admin"
	RoleTreasurer = "treasurer"
)

type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"not null;uniqueIndex:idx_users_username"`
	FullName     string  `gorm:"not null"`
	Email        *string `gorm:"uniqueIndex:idx_users_email"`
	PasswordHash *string `gorm:"column:password_hash"`
	Role         string  `gorm:"type:varchar(20);not null;default:'treasurer'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Active       bool    `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is the part of a user that is safe to hand to clients.
type Summary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (u User) Summary() Summary {
	return Summary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
