package users

import "time"

// SessionTTL is the fixed validity window of a login, measured from creation.
const SessionTTL = 24 * time.Hour

type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UserAgent string    `gorm:"size:255"`
	IP        string    `gorm:"size:64"`
	CreatedAt time.Time
}

// ValidAt reports whether the session is still inside its window at now.
func (s Session) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
