package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kaskelas/internal/domain/users"
	"kaskelas/internal/store"
	"kaskelas/internal/store/storetest"

	"golang.org/x/crypto/bcrypt"
)

var loginAt = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, clock *testClock) (*Service, *store.Store) {
	t.Helper()
	s := storetest.Open(t)
	svc := &Service{
		Users:    s.Users,
		Sessions: s.Sessions,
		Tokens:   NewTokenCodec("test-secret", clock.Now),
		Now:      clock.Now,
	}
	return svc, s
}

func seedUser(t *testing.T, s *store.Store, username, password string, active bool) users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h := string(hash)
	u := users.User{Username: username, FullName: "Bu " + username, PasswordHash: &h, Role: users.RoleTreasurer, Active: true}
	if err := s.Users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if !active {
		if err := s.DB().Model(&users.User{}).Where("id = ?", u.ID).Update("active", false).Error; err != nil {
			t.Fatalf("deactivate: %v", err)
		}
		u.Active = false
	}
	return u
}

func TestSessionWindowIsTwentyFourHours(t *testing.T) {
	clock := &testClock{t: loginAt}
	svc, s := newTestService(t, clock)
	u := seedUser(t, s, "siti", "rahasia123", true)
	ctx := context.Background()

	issued, err := svc.StartSession(ctx, u, "test", "127.0.0.1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if !issued.Session.ExpiresAt.Equal(loginAt.Add(24 * time.Hour)) {
		t.Fatalf("expires at %v", issued.Session.ExpiresAt)
	}

	clock.t = loginAt.Add(23*time.Hour + 59*time.Minute)
	p, err := svc.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Validate at T+23h59m: %v", err)
	}
	if p.User.ID != u.ID || p.Session.ID != issued.Session.ID {
		t.Fatalf("unexpected principal %+v", p)
	}

	clock.t = loginAt.Add(24*time.Hour + time.Minute)
	if _, err := svc.Validate(ctx, issued.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Validate at T+24h01m err = %v, want ErrInvalidSession", err)
	}
}

func TestEndInvalidatesToken(t *testing.T) {
	clock := &testClock{t: loginAt}
	svc, s := newTestService(t, clock)
	u := seedUser(t, s, "siti", "rahasia123", true)
	ctx := context.Background()

	issued, err := svc.StartSession(ctx, u, "", "")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.End(ctx, issued.Token); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := svc.Validate(ctx, issued.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

func TestValidateRejectsDeactivatedUser(t *testing.T) {
	clock := &testClock{t: loginAt}
	svc, s := newTestService(t, clock)
	u := seedUser(t, s, "siti", "rahasia123", true)
	ctx := context.Background()

	issued, err := svc.StartSession(ctx, u, "", "")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := s.DB().Model(&users.User{}).Where("id = ?", u.ID).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Validate(ctx, issued.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

type countingSessions struct {
	SessionStore
	gets int
}

func (c *countingSessions) Get(ctx context.Context, id string) (users.Session, error) {
	c.gets++
	return c.SessionStore.Get(ctx, id)
}

func TestForgedTokenFailsBeforeStoreRead(t *testing.T) {
	clock := &testClock{t: loginAt}
	svc, s := newTestService(t, clock)
	u := seedUser(t, s, "siti", "rahasia123", true)
	ctx := context.Background()

	issued, err := svc.StartSession(ctx, u, "", "")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	counter := &countingSessions{SessionStore: s.Sessions}
	svc.Sessions = counter

	parts := strings.Split(issued.Token, ".")
	forged := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	other := NewTokenCodec("another-secret", clock.Now)
	resigned, _ := other.Encode(issued.Session.ID, u.ID, issued.Session.ExpiresAt)

	for _, tok := range []string{forged, resigned, "not-a-token"} {
		if _, err := svc.Validate(ctx, tok); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("Validate(%q) err = %v", tok, err)
		}
	}
	if counter.gets != 0 {
		t.Fatalf("store was read %d times for invalid tokens", counter.gets)
	}
}

func TestValidateCredentials(t *testing.T) {
	clock := &testClock{t: loginAt}
	svc, s := newTestService(t, clock)
	seedUser(t, s, "siti", "rahasia123", true)
	seedUser(t, s, "lama", "rahasia123", false)
	ctx := context.Background()

	if _, err := svc.ValidateCredentials(ctx, "siti", "rahasia123"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	for _, tc := range []struct{ user, pass string }{
		{"siti", "salah"},
		{"nobody", "rahasia123"},
		{"lama", "rahasia123"},
	} {
		if _, err := svc.ValidateCredentials(ctx, tc.user, tc.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("ValidateCredentials(%s) err = %v", tc.user, err)
		}
	}
}

func TestTokenCodecRoundTrip(t *testing.T) {
	clock := &testClock{t: loginAt}
	codec := NewTokenCodec("s3cret", clock.Now)
	tok, err := codec.Encode("abc", 42, loginAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	sid, uid, err := codec.Decode(tok)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sid != "abc" || uid != 42 {
		t.Fatalf("got %q/%d", sid, uid)
	}

	clock.t = loginAt.Add(2 * time.Hour)
	if _, _, err := codec.Decode(tok); err == nil {
		t.Fatal("expired token decoded")
	}
}
