package billing

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var ErrNotPending = errors.New("payment is not pending")

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusFailed, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// CanTransition allows only pending -> paid|failed|cancelled.
func CanTransition(from, to Status) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusPaid, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s != StatusPending
}
