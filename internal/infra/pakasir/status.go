package pakasir

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// KnownStatus reports whether s is one of the statuses Pakasir sends.
// Matching is exact: callbacks and gateway answers are compared as sent.
func KnownStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	}
	return false
}
