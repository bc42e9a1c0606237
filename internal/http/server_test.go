package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/ledger/memory"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.New()
	logger := log.New(log.DefaultConfig())
	summaryCache := cache.NewLRUCache[*services.SummaryView](16, time.Minute)

	clock := func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	dashboard := services.NewDashboardService(store, summaryCache, logger, clock)
	records := services.NewRecordService(store, nil, dashboard, logger)

	return NewServer(Options{
		Addr:            ":0",
		Store:           store,
		Records:         records,
		Dashboard:       dashboard,
		Password:        auth.NewPasswordAuthenticator(store),
		JWT:             auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour),
		Logger:          logger,
		RateLimitPerMin: 1000,
	})
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func registerAndLogin(t *testing.T, s *Server, email string) string {
	t.Helper()

	rec := do(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "secret1", "name": "Test",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": email, "password": "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("login returned empty token")
	}
	return token
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", rec.Code)
	}
}

func TestRegisterValidationAndConflict(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "a@b.com", "password": "12345", "name": "A",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("weak password status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "a@b.com", "password": "secret1", "name": "A",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "A@B.com", "password": "secret2", "name": "B",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}
	if msg := decode(t, rec)["error"]; msg != "email already registered" {
		t.Errorf("error = %v", msg)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "login@example.com")

	rec := do(t, s, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "login@example.com", "password": "wrong-pass",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/dashboard/summary",
		"/api/expenses",
		"/api/income",
		"/api/categories",
	} {
		rec := do(t, s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, rec.Code)
		}
	}

	rec := do(t, s, http.MethodGet, "/api/expenses", "not-a-valid-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestExpenseFlow(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "flow@example.com")

	rec := do(t, s, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount":   45.99,
		"category": "Food & Dining",
		"date":     "2025-03-10",
		"tags":     []string{"weekly"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense status = %d, body %s", rec.Code, rec.Body.String())
	}

	// String amounts work too.
	rec = do(t, s, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount":   "12,50",
		"category": "Transport",
		"date":     "2025-03-11T08:30:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/expenses", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list expenses status = %d", rec.Code)
	}
	expenses := decode(t, rec)["expenses"].([]any)
	if len(expenses) != 2 {
		t.Fatalf("len(expenses) = %d, want 2", len(expenses))
	}
	first := expenses[0].(map[string]any)
	if first["amount"].(float64) != 45.99 {
		t.Errorf("amount = %v, want 45.99", first["amount"])
	}
	if !strings.HasPrefix(first["date"].(string), "2025-03-10T") {
		t.Errorf("date = %v, want RFC3339 on 2025-03-10", first["date"])
	}
	if first["isNecessary"] != true {
		t.Errorf("isNecessary = %v, want default true", first["isNecessary"])
	}
}

func TestExpenseValidationErrors(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "invalid@example.com")

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"zero amount", map[string]any{"amount": 0, "category": "Food", "date": "2025-03-10"}, "amount"},
		{"negative amount", map[string]any{"amount": -5, "category": "Food", "date": "2025-03-10"}, "amount"},
		{"missing category", map[string]any{"amount": 10, "date": "2025-03-10"}, "category"},
		{"missing date", map[string]any{"amount": 10, "category": "Food"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/expenses", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			msg, _ := decode(t, rec)["error"].(string)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error = %q, want mention of %q", msg, tt.want)
			}
		})
	}
}

func TestDashboardSummary(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "dash@example.com")

	rec := do(t, s, http.MethodPost, "/api/income", token, map[string]any{
		"amount": 5000, "sourceType": "salary", "date": "2025-03-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create income status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = do(t, s, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount": 2000, "category": "Housing", "date": "2025-03-05",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense status = %d", rec.Code)
	}
	// Outside the current month, not counted in stats.
	rec = do(t, s, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount": 999, "category": "Travel", "date": "2025-02-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/dashboard/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)

	stats := body["stats"].(map[string]any)
	if stats["income"].(float64) != 5000 {
		t.Errorf("income = %v, want 5000", stats["income"])
	}
	if stats["expenses"].(float64) != 2000 {
		t.Errorf("expenses = %v, want 2000", stats["expenses"])
	}
	if stats["balance"].(float64) != 3000 {
		t.Errorf("balance = %v, want 3000", stats["balance"])
	}
	if stats["savingsRate"].(float64) != 60 {
		t.Errorf("savingsRate = %v, want 60", stats["savingsRate"])
	}

	suggestions := body["suggestions"].([]any)
	if len(suggestions) == 0 {
		t.Fatal("suggestions is empty")
	}

	recent := body["recentExpenses"].([]any)
	if len(recent) != 2 {
		t.Fatalf("len(recentExpenses) = %d, want 2", len(recent))
	}
	newest := recent[0].(map[string]any)
	if newest["category"] != "Housing" {
		t.Errorf("newest category = %v, want Housing", newest["category"])
	}
}

func TestCategoriesSeeded(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "cats@example.com")

	rec := do(t, s, http.MethodGet, "/api/categories", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("categories status = %d", rec.Code)
	}
	cats := decode(t, rec)["categories"].([]any)
	if len(cats) != 12 {
		t.Errorf("len(categories) = %d, want 12", len(cats))
	}
}

func TestUsersAreIsolated(t *testing.T) {
	s := newTestServer(t)
	alice := registerAndLogin(t, s, "alice@example.com")
	bob := registerAndLogin(t, s, "bob@example.com")

	rec := do(t, s, http.MethodPost, "/api/expenses", alice, map[string]any{
		"amount": 100, "category": "Food", "date": "2025-03-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/expenses", bob, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list expenses status = %d", rec.Code)
	}
	expenses := decode(t, rec)["expenses"].([]any)
	if len(expenses) != 0 {
		t.Errorf("bob sees %d of alice's expenses", len(expenses))
	}
}
