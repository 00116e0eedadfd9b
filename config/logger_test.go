package config

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGetDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("KASKELAS_TEST_TIMEOUT", "soon")
	if got := getDuration("KASKELAS_TEST_TIMEOUT", 3e9); got != 3e9 {
		t.Fatalf("expected fallback, got %s", got)
	}

	t.Setenv("KASKELAS_TEST_TIMEOUT", "250ms")
	if got := getDuration("KASKELAS_TEST_TIMEOUT", 3e9); got.Milliseconds() != 250 {
		t.Fatalf("expected 250ms, got %s", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("KASKELAS_TEST_FLAG", "true")
	if !getBool("KASKELAS_TEST_FLAG", false) {
		t.Fatal("expected true")
	}
	t.Setenv("KASKELAS_TEST_FLAG", "nope")
	if getBool("KASKELAS_TEST_FLAG", false) {
		t.Fatal("expected fallback false")
	}
}
