package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActorUser   = "user"
	ActorSystem = "system"
)

// Action tags.
const (
	PaymentSettled   = "payment.settled"
	PaymentIssued    = "payment.issued"
	PaymentCancelled = "payment.cancelled"
	PaymentReminded  = "payment.reminded"
	StudentCreated   = "student.created"
	StudentUpdated   = "student.updated"
	StudentRemoved   = "student.deactivated"
	CategoryCreated  = "category.created"
	CategoryUpdated  = "category.updated"
	ExpenseCreated   = "expense.created"
	ExpenseUpdated   = "expense.updated"
	ExpenseDeleted   = "expense.deleted"
	UserCreated      = "user.created"
	UserLoggedIn     = "auth.login"
	UserLoggedOut    = "auth.logout"
)

// Log is an append-only audit entry. Rows are never updated or deleted.
type Log struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	ActorID    *uint             `gorm:"index" json:"actor_id"`
	ActorType  string            `gorm:"size:16;not null" json:"actor_type"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   string            `gorm:"size:64;index" json:"entity_id"`
	Details    datatypes.JSONMap `json:"details"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ByUser builds an entry attributed to a dashboard user.
func ByUser(userID uint, action, entityType, entityID string, details map[string]interface{}) Log {
	uid := userID
	return Log{
		ActorID:    &uid,
		ActorType:  ActorUser,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    datatypes.JSONMap(details),
	}
}

// BySystem builds an entry with no human actor (gateway callbacks).
func BySystem(action, entityType, entityID string, details map[string]interface{}) Log {
	return Log{
		ActorType:  ActorSystem,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    datatypes.JSONMap(details),
	}
}
