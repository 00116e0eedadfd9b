package expenses

import (
	"time"

	"gorm.io/gorm"
)

type Expense struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Category    string         `gorm:"size:64;index" json:"category"`
	Amount      int64          `gorm:"not null" json:"amount"`
	SpentAt     time.Time      `gorm:"not null;index" json:"spent_at"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedByID uint           `gorm:"index" json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
