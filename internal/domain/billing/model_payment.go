package billing

import (
	"time"

	"kaskelas/internal/domain/students"
)

type Payment struct {
	// ID is the order reference shared with the gateway.
	ID            string            `gorm:"primaryKey;size:32" json:"id"`
	StudentID     uint              `gorm:"index;not null" json:"student_id"`
	Student       *students.Student `json:"student,omitempty"`
	CategoryID    uint              `gorm:"index;not null" json:"category_id"`
	Category      *Category         `json:"category,omitempty"`
	Amount        int64             `gorm:"not null" json:"amount"`
	Status        Status            `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	PaymentMethod *string           `gorm:"size:64" json:"payment_method"`
	PaymentURL    string            `json:"payment_url"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	CompletedAt   *time.Time        `json:"completed_at"`
}

// Settlement carries the gateway-confirmed fields applied when a bill is paid.
type Settlement struct {
	OrderID       string
	Amount        int64
	PaymentMethod string
	CompletedAt   time.Time
}

// Settled returns a copy of p as it reads after s has been applied at now.
func (p Payment) Settled(s Settlement, now time.Time) Payment {
	p.Status = StatusPaid
	at := s.CompletedAt
	if at.IsZero() {
		at = now
	}
	p.CompletedAt = &at
	if s.PaymentMethod != "" {
		method := s.PaymentMethod
		p.PaymentMethod = &method
	}
	p.UpdatedAt = now
	return p
}
