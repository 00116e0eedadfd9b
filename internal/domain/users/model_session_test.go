package users

import (
	"testing"
	"time"
)

func TestSessionValidAtWindowEdges(t *testing.T) {
	created := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	s := Session{ID: "tok", UserID: 7, CreatedAt: created, ExpiresAt: created.Add(SessionTTL)}

	if !s.ValidAt(created.Add(23*time.Hour + 59*time.Minute)) {
		t.Fatal("session should be valid at T+23h59m")
	}
	if s.ValidAt(created.Add(24*time.Hour + time.Minute)) {
		t.Fatal("session should be invalid at T+24h01m")
	}
	if s.ValidAt(created.Add(SessionTTL)) {
		t.Fatal("session should be invalid exactly at expiry")
	}
}
