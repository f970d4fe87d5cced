package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cbmmg/painel-cad/internal/middleware"
	"github.com/cbmmg/painel-cad/internal/utils"
)

// call wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting headers on the request, and returns the recorded
// response.
func call(t *testing.T, mw func(http.Handler) http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestCORSMiddleware_AllowedOrigin verifies an allow-listed origin is
// echoed back with credentials headers.
func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"https://painel.cbmmg.example"})

	rec := call(t, mw, map[string]string{"Origin": "https://painel.cbmmg.example"})

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://painel.cbmmg.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Error("expected Vary: Origin")
	}
}

// TestCORSMiddleware_UnknownOrigin verifies an unknown origin gets no CORS
// grant but the request still goes through.
func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"https://painel.cbmmg.example"})

	rec := call(t, mw, map[string]string{"Origin": "https://evil.example"})

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected CORS grant: %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

// TestCORSMiddleware_Preflight verifies OPTIONS requests short-circuit with
// 204.
func TestCORSMiddleware_Preflight(t *testing.T) {
	mw := middleware.CORSMiddleware(nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run on preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

// TestRequestIDMiddleware verifies a request ID is generated, exposed on
// the response and placed in the request context.
func TestRequestIDMiddleware(t *testing.T) {
	var fromContext string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext, _ = utils.GetRequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	middleware.RequestIDMiddleware(inner).ServeHTTP(rec, req)

	header := rec.Header().Get("X-Request-ID")
	if header == "" {
		t.Fatal("X-Request-ID not set")
	}
	if fromContext != header {
		t.Errorf("context ID %q != header ID %q", fromContext, header)
	}
}

// TestRequestIDMiddleware_Propagates verifies a caller-supplied ID is kept.
func TestRequestIDMiddleware_Propagates(t *testing.T) {
	rec := call(t, middleware.RequestIDMiddleware, map[string]string{"X-Request-ID": "abc-123"})

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

// TestRateLimitMiddleware verifies requests beyond the burst get a 429 with
// Retry-After.
func TestRateLimitMiddleware(t *testing.T) {
	mw := middleware.RateLimitMiddleware(1, 2)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw(inner)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:4321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be limited, got %v", codes)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.2:4321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("separate client should not be limited, got %d", rec.Code)
	}
}
