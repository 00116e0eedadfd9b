package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kaskelas/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIsPasswordStrong(t *testing.T) {
	cases := map[string]bool{
		"short1":     false,
		"longenough": false,
		"12345678":   false,
		"rahasia123": true,
		"Abcdefg9":   true,
	}
	for in, want := range cases {
		if got := isPasswordStrong(in); got != want {
			t.Errorf("isPasswordStrong(%q) = %v", in, got)
		}
	}
}

func TestCreateUser(t *testing.T) {
	s := storetest.Open(t)
	h := NewHandler(s)
	h.Cost = bcrypt.MinCost
	r := gin.New()
	r.POST("/api/admin/users", h.CreateUser)
	r.GET("/api/admin/users", h.ListUsers)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"username":"bendahara","full_name":"Bu Sari","email":"Sari@Example.com","password":"rahasia123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code=%d body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("response leaks password: %s", w.Body.String())
	}

	u, err := s.Users.FindByUsername(context.Background(), "bendahara")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.Role != "treasurer" || u.PasswordHash == nil || *u.Email != "sari@example.com" {
		t.Fatalf("stored user = %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("rahasia123")) != nil {
		t.Fatal("password hash does not match")
	}

	cases := map[string]struct {
		body string
		code int
	}{
		"duplicate":   {`{"username":"bendahara","full_name":"X","password":"rahasia123"}`, http.StatusConflict},
		"case only":   {`{"username":"Bendahara","full_name":"X","password":"rahasia456"}`, http.StatusConflict},
		"weak":        {`{"username":"a","full_name":"X","password":"password"}`, http.StatusBadRequest},
		"bad role":    {`{"username":"b","full_name":"X","password":"rahasia123","role":"owner"}`, http.StatusBadRequest},
		"bad email":   {`{"username":"c","full_name":"X","password":"rahasia123","email":"nope"}`, http.StatusBadRequest},
		"missing all": {`{}`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		if w := post(tc.body); w.Code != tc.code {
			t.Errorf("%s: code=%d want %d body=%s", name, w.Code, tc.code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"username":"bendahara"`) {
		t.Fatalf("list = %s", w.Body.String())
	}
}
