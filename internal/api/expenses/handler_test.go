package expenses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kaskelas/internal/domain/expenses"
	"kaskelas/internal/domain/reports"
	"kaskelas/internal/infra/cache"
	"kaskelas/internal/store/storetest"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestExpenseLifecycle(t *testing.T) {
	s := storetest.Open(t)
	mem := cache.NewMemory()
	h := NewHandler(s, mem)
	h.Now = func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/api/expenses", h.List)
	r.POST("/api/expenses", h.Create)
	r.PUT("/api/expenses/:id", h.Update)
	r.DELETE("/api/expenses/:id", h.Delete)

	call := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	ctx := context.Background()
	_ = mem.Set(ctx, reports.SummaryCacheKey, "stale", time.Hour)

	w := call(http.MethodPost, "/api/expenses", `{"title":"Spidol","category":"ATK","amount":12000,"spent_at":"2024-03-10"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code=%d body=%s", w.Code, w.Body.String())
	}
	var e expenses.Expense
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok, _ := mem.Get(ctx, reports.SummaryCacheKey); ok {
		t.Fatal("summary cache not invalidated")
	}

	call(http.MethodPost, "/api/expenses", `{"title":"Kertas","category":"ATK","amount":30000}`)

	w = call(http.MethodGet, "/api/expenses?from=2024-03-01&to=2024-03-15", "")
	var list []expenses.Expense
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Spidol" {
		t.Fatalf("filtered list = %+v", list)
	}

	path := "/api/expenses/" + jsonID(e.ID)
	if w := call(http.MethodPut, path, `{"amount":15000}`); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "15000") {
		t.Fatalf("update: code=%d body=%s", w.Code, w.Body.String())
	}
	if w := call(http.MethodPut, path, `{"amount":-1}`); w.Code != http.StatusBadRequest {
		t.Fatalf("negative amount: code=%d", w.Code)
	}

	if w := call(http.MethodDelete, path, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: code=%d", w.Code)
	}
	if w := call(http.MethodDelete, path, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: code=%d", w.Code)
	}

	totals, err := s.Payments.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.ExpenseAmount != 30000 {
		t.Fatalf("deleted expense still counted: %d", totals.ExpenseAmount)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	h := NewHandler(storetest.Open(t), cache.Noop{})
	r := gin.New()
	r.POST("/api/expenses", h.Create)

	for _, body := range []string{
		`{"amount":1000}`,
		`{"title":"X"}`,
		`{"title":"X","amount":0}`,
		`{"title":"X","amount":10,"spent_at":"kemarin"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: code=%d", body, w.Code)
		}
	}
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
