package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/msomdec/auction-house/internal/handler"
	"github.com/msomdec/auction-house/internal/service"
)

func TestRequireAuth_ValidJWT(t *testing.T) {
	auth, _, _ := newTestServices(t)

	user := registerUser(t, auth, "valid")
	token, err := auth.Login(context.Background(), "valid", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := handler.UserFromContext(r.Context()); u != nil {
			gotUser = u.Username
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != user.Username {
		t.Fatalf("expected user %q, got %q", user.Username, gotUser)
	}
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	auth, _, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	tests := []struct {
		name     string
		method   string
		target   string
		cookie   string
		referer  string
		location string
	}{
		{"missing cookie", http.MethodGet, "/watchlist?page=2", "", "", "/login?next=%2Fwatchlist%3Fpage%3D2"},
		{"invalid token", http.MethodGet, "/create", "invalid.jwt.token", "", "/login?next=%2Fcreate"},
		{"form post returns to referring page", http.MethodPost, "/bid/4", "", "http://example.com/listing/4", "/login?next=%2Flisting%2F4"},
		{"foreign referer", http.MethodPost, "/bid/4", "", "http://evil.test/x", "/login?next=%2F"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "http://example.com"+tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tc.cookie})
			}
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			w := httptest.NewRecorder()

			handler.RequireAuth(auth, inner).ServeHTTP(w, req)

			if w.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d", w.Code)
			}
			if loc := w.Header().Get("Location"); loc != tc.location {
				t.Fatalf("expected Location %q, got %q", tc.location, loc)
			}
		})
	}
}

func TestOptionalAuth_WithoutToken(t *testing.T) {
	auth, _, _ := newTestServices(t)

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if handler.UserFromContext(r.Context()) != nil {
			t.Error("expected nil user in context for unauthenticated request")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.OptionalAuth(auth, inner).ServeHTTP(w, req)

	if !called || w.Code != http.StatusOK {
		t.Fatalf("expected inner handler to run with 200, got called=%v code=%d", called, w.Code)
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := w.(http.Flusher); !ok {
			t.Error("wrapped writer must still support flushing")
		}
		w.WriteHeader(http.StatusTeapot)
	})
	h := handler.RequestLogger(inner)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get("X-Request-ID")); err != nil {
		t.Fatalf("expected generated uuid request id, got %q", w.Header().Get("X-Request-ID"))
	}

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", given)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != given {
		t.Fatalf("expected incoming request id %q to be kept, got %q", given, got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := handler.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, name := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy"} {
		if w.Header().Get(name) == "" {
			t.Fatalf("expected %s header", name)
		}
	}
}

func TestRateLimit(t *testing.T) {
	limiter := service.NewTokenBucket(t.Context(), 0, 1)
	h := handler.RateLimit(limiter, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", w.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "192.0.2.2:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", w.Code)
	}
}
