package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks ...Check) *gin.Engine {
	h := NewHealth(checks...)
	r := gin.New()
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	return r
}

func okCheck(name string) Check {
	return Check{Name: name, Ping: func(context.Context) error { return nil }}
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	router := setupRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", response.Status)
	}
	if response.Checks != nil {
		t.Errorf("expected no checks, got %v", response.Checks)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
	}
}

func TestHealth_Checks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     []Check
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "all healthy",
			checks:     []Check{okCheck("db"), okCheck("redis")},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"db": "ok", "redis": "ok"},
		},
		{
			name: "redis down",
			checks: []Check{
				okCheck("db"),
				{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			wantChecks: map[string]string{"db": "ok", "redis": "connection refused"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.checks...).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			var response HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, response.Status)
			}
			for k, v := range tt.wantChecks {
				if response.Checks[k] != v {
					t.Errorf("check %s: expected %q, got %q", k, v, response.Checks[k])
				}
			}
		})
	}
}

func TestHealth_PingHasDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	router := setupRouter(Check{Name: "db", Ping: func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !hasDeadline {
		t.Error("expected ping context to carry a deadline")
	}
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checks   []Check
		wantCode int
	}{
		{"healthy", nil, http.StatusOK},
		{"unhealthy", []Check{{Name: "db", Ping: func(context.Context) error { return errors.New("closed") }}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.checks...).ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))

			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			// HEAD should have no body
			if w.Body.Len() != 0 {
				t.Errorf("expected empty body for HEAD request, got %d bytes", w.Body.Len())
			}
			if w.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestHealth_OPTIONS(t *testing.T) {
	t.Parallel()

	called := false
	router := setupRouter(Check{Name: "db", Ping: func(context.Context) error { called = true; return nil }})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/healthz", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if called {
		t.Error("OPTIONS must not run dependency checks")
	}
}
