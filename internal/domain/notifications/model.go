package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindPaymentConfirmed = "payment_confirmed"
	KindPaymentReminder  = "payment_reminder"

	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Message is one outbound WhatsApp message attempt.
type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	StudentID uint      `gorm:"index" json:"student_id"`
	PaymentID string    `gorm:"size:32;index" json:"payment_id"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Body      string    `gorm:"type:text" json:"body"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
