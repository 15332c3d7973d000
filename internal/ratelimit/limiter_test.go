package ratelimit

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinWindow(t *testing.T) {
	limiter := NewLimiter(3, time.Minute)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("fourth request should be rejected")
	}

	// A different key has its own budget.
	if !limiter.Allow("10.0.0.2") {
		t.Error("separate client should not be limited")
	}
}

func TestAllowAfterWindowSlides(t *testing.T) {
	limiter := NewLimiter(1, 50*time.Millisecond)
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("second request inside the window should be rejected")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("10.0.0.1") {
		t.Error("request after the window expired should be allowed")
	}
}

func TestAllowEmptyKey(t *testing.T) {
	limiter := NewLimiter(1, time.Minute)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if !limiter.Allow("") {
			t.Fatal("empty key must never be limited")
		}
	}
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	limiter := NewLimiter(2, time.Minute)
	defer limiter.Stop()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Middleware(limiter, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/deudas", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/deudas", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after budget exhausted, got %d", rec.Code)
	}
}
