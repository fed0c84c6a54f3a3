package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/handler"
	"github.com/msomdec/auction-house/internal/repository/sqlite"
	"github.com/msomdec/auction-house/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	db      *sqlite.DB
	auth    *service.AuthService
	auction *service.AuctionService
	srv     *httptest.Server
}

func newTestServices(t *testing.T) (*service.AuthService, *service.AuctionService, *sqlite.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	auction := service.NewAuctionService(db.Listings(), db.Bids(), db.Comments(), db.Categories(), db.Users(), false)
	return auth, auction, db
}

// newTestEnv starts a server with the full middleware stack.
func newTestEnv(t *testing.T, limiter *service.TokenBucket) *testEnv {
	t.Helper()
	auth, auction, db := newTestServices(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, auction, limiter, false)

	srv := httptest.NewServer(handler.RequestLogger(handler.SecurityHeaders(mux)))
	t.Cleanup(srv.Close)

	return &testEnv{db: db, auth: auth, auction: auction, srv: srv}
}

// newClient returns a client with its own cookie jar that does not follow
// redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func registerUser(t *testing.T, auth *service.AuthService, username string) *domain.User {
	t.Helper()
	user, err := auth.Register(context.Background(), service.RegisterInput{
		Username: username, Password: "password123", Confirmation: "password123",
	})
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}
	return user
}

// loggedInClient registers username and returns a client holding its session.
func (e *testEnv) loggedInClient(t *testing.T, username string) (*http.Client, *domain.User) {
	t.Helper()
	user := registerUser(t, e.auth, username)
	client := newClient(t)

	resp := postForm(t, client, e.srv.URL+"/login", url.Values{
		"username": {username},
		"password": {"password123"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login %s: expected 303, got %d", username, resp.StatusCode)
	}
	return client, user
}

// get fetches u and returns the response with its body read.
func get(t *testing.T, client *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, u string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(u, form)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

// follow fetches the redirect target of resp.
func (e *testEnv) follow(t *testing.T, client *http.Client, resp *http.Response) (*http.Response, string) {
	t.Helper()
	loc := resp.Header.Get("Location")
	if loc == "" {
		t.Fatalf("expected a redirect, got %d without Location", resp.StatusCode)
	}
	return get(t, client, e.srv.URL+loc)
}
