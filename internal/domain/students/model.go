package students

import "time"

type Student struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	StudentNumber string `gorm:"not null;uniqueIndex:idx_students_number" json:"student_number"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `gorm:"size:32" json:"guardian_phone"`
	Active        bool   `gorm:"not null;default:true;index" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasGuardianContact reports whether a WhatsApp number is on file.
func (s Student) HasGuardianContact() bool {
	return s.GuardianPhone != ""
}
