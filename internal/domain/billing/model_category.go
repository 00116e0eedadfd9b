package billing

import "time"

type Category struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"not null;uniqueIndex:idx_categories_name" json:"name"`
	Description   string `json:"description"`
	DefaultAmount int64  `gorm:"not null" json:"default_amount"`
	Active        bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
