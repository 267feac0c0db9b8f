package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newMockServer(t *testing.T, opts Options) (*Server, *services.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := services.NewMockStore(ctrl)
	if opts.Ledger == nil {
		opts.Ledger = services.NewExpenseService(store, nil, log.Nop())
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	srv := NewServer(":0", opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestCreateExpense(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setupMock   func(m *services.MockStore)
		wantStatus  int
		wantMessage string
	}{
		{
			name: "number amount",
			body: `{"date":"2024-01-15","amount":12.5,"category":"Food","note":"lunch"}`,
			setupMock: func(m *services.MockStore) {
				note := "lunch"
				m.EXPECT().
					Insert(gomock.Any(), core.Expense{Date: "2024-01-15", Amount: 12.5, Category: "Food", Note: &note}).
					Return(int64(1), nil)
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "Added expense: Food - $12.50 on 2024-01-15",
		},
		{
			name: "string amount",
			body: `{"date":"2024-01-15","amount":"7.05","category":"Transport"}`,
			setupMock: func(m *services.MockStore) {
				m.EXPECT().
					Insert(gomock.Any(), core.Expense{Date: "2024-01-15", Amount: 7.05, Category: "Transport"}).
					Return(int64(2), nil)
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "Added expense: Transport - $7.05 on 2024-01-15",
		},
		{
			name:        "invalid category",
			body:        `{"date":"2024-01-15","amount":10,"category":"Groceries"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Invalid category. Must be one of: Food, Travel, Transport, Shopping, Bills, Healthcare, Education, Business, Other",
		},
		{
			name:        "missing amount",
			body:        `{"date":"2024-01-15","category":"Food"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Amount must be a positive number",
		},
		{
			name:        "bad date",
			body:        `{"date":"15/01/2024","amount":1,"category":"Food"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Date must be in YYYY-MM-DD format (e.g., 2024-01-15)",
		},
		{
			name:        "date with surrounding space",
			body:        `{"date":" 2024-01-15","amount":1,"category":"Food"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Date must be in YYYY-MM-DD format (e.g., 2024-01-15)",
		},
		{
			name:        "year zero",
			body:        `{"date":"0000-01-01","amount":1,"category":"Food"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Date must be in YYYY-MM-DD format (e.g., 2024-01-15)",
		},
		{
			name:       "malformed json",
			body:       `{"date":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non numeric amount",
			body:       `{"date":"2024-01-15","amount":"ten","category":"Food"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "trailing data",
			body:       `{"date":"2024-01-15","amount":1,"category":"Food"} {}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			body: `{"date":"2024-01-15","amount":1,"category":"Food"}`,
			setupMock: func(m *services.MockStore) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database is locked"))
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Database error: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, store := newMockServer(t, Options{})
			if tt.setupMock != nil {
				tt.setupMock(store)
			}

			rec, body := do(t, srv.Handler, http.MethodPost, "/api/v1/expenses", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if rec.Code == http.StatusCreated {
				assert.Equal(t, "success", body["status"])
				assert.Contains(t, body, "id")
			} else {
				assert.Equal(t, "error", body["status"])
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
		})
	}
}

func TestEmptyBodyIsBadRequest(t *testing.T) {
	srv, _ := newMockServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Invalid request body: empty body"}`, rec.Body.String())
}

func TestListExpenses(t *testing.T) {
	srv, store := newMockServer(t, Options{})
	store.EXPECT().QueryRange(gomock.Any(), "2024-01-01", "2024-01-31").Return([]core.Expense{
		{ID: 2, Date: "2024-01-20", Amount: 20, Category: "Travel"},
		{ID: 1, Date: "2024-01-10", Amount: 10, Category: "Food"},
	}, nil)

	rec, body := do(t, srv.Handler, http.MethodGet, "/api/v1/expenses?start_date=2024-01-01&end_date=2024-01-31", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["expenses"], 2)
}

func TestListExpenses_InvalidRange(t *testing.T) {
	srv, _ := newMockServer(t, Options{})

	rec, body := do(t, srv.Handler, http.MethodGet, "/api/v1/expenses?start_date=2024-01-01", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, strings.HasPrefix(body["message"].(string), "Invalid end_date: "))

	rec, body = do(t, srv.Handler, http.MethodGet, "/api/v1/expenses?start_date=%202024-01-01&end_date=2024-01-31", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, strings.HasPrefix(body["message"].(string), "Invalid start_date: "))
}

func TestSummary(t *testing.T) {
	srv, store := newMockServer(t, Options{})
	store.EXPECT().AggregateRange(gomock.Any(), "2024-01-01", "2024-01-31", "Food").Return([]core.CategoryTotal{
		{Category: "Food", TotalAmount: 15, Count: 2},
	}, nil)

	rec, _ := do(t, srv.Handler, http.MethodGet, "/api/v1/summary?start_date=2024-01-01&end_date=2024-01-31&category=Food", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": "success",
		"period": "2024-01-01 to 2024-01-31",
		"total_amount": 15,
		"summary": [{"category": "Food", "total_amount": 15, "count": 2}]
	}`, rec.Body.String())
}

func TestCategories(t *testing.T) {
	srv, _ := newMockServer(t, Options{})

	rec, body := do(t, srv.Handler, http.MethodGet, "/api/v1/categories", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Food", "Travel", "Transport", "Shopping", "Bills", "Healthcare", "Education", "Business", "Other"}, body["categories"])
	assert.Contains(t, rec.Body.String(), "\n  \"categories\"")
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newMockServer(t, Options{Store: pingFunc(func(context.Context) error { return nil })})

	rec, body := do(t, srv.Handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, body = do(t, srv.Handler, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestReady_StoreDown(t *testing.T) {
	srv, _ := newMockServer(t, Options{Store: pingFunc(func(context.Context) error {
		return core.NewStorageError("ping", errors.New("sql: database is closed"))
	})})

	rec, body := do(t, srv.Handler, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	srv, _ := newMockServer(t, Options{})

	rec, body := do(t, srv.Handler, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", body["status"])

	rec, body = do(t, srv.Handler, http.MethodDelete, "/api/v1/expenses", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestRateLimit(t *testing.T) {
	srv, _ := newMockServer(t, Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rec, _ := do(t, srv.Handler, http.MethodGet, "/api/v1/categories", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := do(t, srv.Handler, http.MethodGet, "/api/v1/categories", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// health checks are not limited
	rec, _ = do(t, srv.Handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	srv, _ := newMockServer(t, Options{RateLimitPerMinute: 10})
	do(t, srv.Handler, http.MethodGet, "/healthz", "")

	rec, _ := do(t, srv.Handler, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total 2\n")
	assert.Contains(t, rec.Body.String(), "rate_limit_rejected_total 0\n")
}

func TestResponseHeaders(t *testing.T) {
	srv, _ := newMockServer(t, Options{})

	rec, _ := do(t, srv.Handler, http.MethodGet, "/api/v1/categories", "")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestEndToEnd_SQLite(t *testing.T) {
	repo, err := storage.NewRepository(context.Background(), storage.Options{
		Driver: storage.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "expenses.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	srv := NewServer(":0", Options{
		Ledger: services.NewExpenseService(repo, nil, log.Nop()),
		Store:  repo,
		Logger: log.Nop(),
	})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	for _, body := range []string{
		`{"date":"2024-01-10","amount":10,"category":"Food"}`,
		`{"date":"2024-01-20","amount":20,"category":"Travel"}`,
		`{"date":"2024-01-05","amount":5,"category":"Food"}`,
	} {
		resp, err := http.Post(ts.URL+"/api/v1/expenses", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/v1/summary?start_date=2024-01-01&end_date=2024-01-31")
	require.NoError(t, err)
	defer resp.Body.Close()

	var summary struct {
		Status      string               `json:"status"`
		TotalAmount float64              `json:"total_amount"`
		Summary     []core.CategoryTotal `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "success", summary.Status)
	assert.Equal(t, 35.0, summary.TotalAmount)
	assert.Equal(t, []core.CategoryTotal{
		{Category: "Travel", TotalAmount: 20, Count: 1},
		{Category: "Food", TotalAmount: 15, Count: 2},
	}, summary.Summary)

	ready, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	ready.Body.Close()
	assert.Equal(t, http.StatusOK, ready.StatusCode)
}

func TestCORS(t *testing.T) {
	srv, _ := newMockServer(t, Options{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/expenses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestTooManyRequestsError_SetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()

	TooManyRequestsError("slow down", "30").Write(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"error","message":"slow down"}`, rec.Body.String())
}

func TestStorageFailureLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	srv, store := newMockServer(t, Options{
		Logger: log.New(log.Config{Level: slog.LevelError, Format: "json", Output: &buf}),
	})
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("disk I/O error"))

	const requestID = "3f0c6f1e-8d3b-4c57-9a43-2f6f0e9b7d11"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses",
		strings.NewReader(`{"date":"2024-01-15","amount":1,"category":"Food"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var saveFailure map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), scanner.Text())
		if line["msg"] == "Failed to save expense" {
			saveFailure = line
		}
	}
	require.NotNil(t, saveFailure, buf.String())
	assert.Equal(t, requestID, saveFailure[log.FieldRequestID])
	assert.Equal(t, log.ComponentLedger, saveFailure[log.FieldComponent])
	assert.Equal(t, log.ErrorTypeDatabase, saveFailure[log.FieldErrorType])
}
