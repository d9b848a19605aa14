package shield

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("expected DENY, got %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'none'") {
		t.Errorf("expected restrictive CSP, got %q", got)
	}
}

func TestTraceIDInjectsHeaderAndContext(t *testing.T) {
	var inner *http.Request
	h := TraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = r
		w.Write([]byte("OK"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/navigate", nil))

	id := rec.Header().Get("X-Trace-ID")
	if len(id) != 8 {
		t.Fatalf("expected 8-char trace id, got %q", id)
	}
	if got := GetTraceID(inner.Context()); got != id {
		t.Errorf("context trace id %q does not match header %q", got, id)
	}
	if GetLogger(inner.Context()) == nil {
		t.Error("expected per-request logger in context")
	}
}

func TestMaxJSONBody(t *testing.T) {
	h := MaxJSONBody(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		if _, err := r.Body.Read(buf); err != nil && !strings.Contains(err.Error(), "EOF") {
			http.Error(w, err.Error(), 413)
			return
		}
		w.Write([]byte("OK"))
	}))

	big := strings.NewReader(`{"url":"` + strings.Repeat("x", 100) + `"}`)
	req := httptest.NewRequest("POST", "/v1/navigate", big)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 413 {
		t.Errorf("expected 413 for oversized body, got %d", rec.Code)
	}

	small := strings.NewReader(`{}`)
	req = httptest.NewRequest("POST", "/v1/navigate", small)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("expected 200 for small body, got %d", rec.Code)
	}
}

func TestHeadToGet(t *testing.T) {
	h := HeadToGet(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET after rewrite, got %s", r.Method)
		}
		w.Write([]byte("OK"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("HEAD", "/health", nil))
	if rec.Code != 200 {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	h := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/navigate", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != 200 {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/navigate", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after limit, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After: 60, got %q", rec.Header().Get("Retry-After"))
	}

	// A different IP has its own bucket.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/v1/navigate", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("expected 200 for other IP, got %d", rec.Code)
	}
}

func TestRateLimiterExcludedPrefix(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, "/health")
	h := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != 200 {
			t.Fatalf("health check %d should bypass limiter, got %d", i+1, rec.Code)
		}
	}
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.5:4242"
	if got := ExtractIP(req); got != "192.168.1.5" {
		t.Errorf("expected 192.168.1.5, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ExtractIP(req); got != "203.0.113.9" {
		t.Errorf("expected first forwarded IP, got %q", got)
	}
}
