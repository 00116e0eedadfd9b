package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := m.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Set(ctx, "a", "1", 0)
	m.Set(ctx, "b", "2", 0)
	m.Delete(ctx, "a", "b")
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatal("a should be gone")
	}
}

func TestNoopNeverHits(t *testing.T) {
	var c Cache = Noop{}
	c.Set(context.Background(), "k", "v", time.Minute)
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Fatalf("noop returned ok=%v err=%v", ok, err)
	}
}

func TestConnectWithoutAddrIsNoop(t *testing.T) {
	if _, ok := Connect(context.Background(), "").(Noop); !ok {
		t.Fatal("expected Noop cache when addr is empty")
	}
}
