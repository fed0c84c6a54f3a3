package handler

import (
	"net/http"

	"github.com/msomdec/auction-house/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. limiter may be
// nil to disable rate limiting of the login and registration forms.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	auction *service.AuctionService,
	limiter *service.TokenBucket,
	cookieSecure bool,
) {
	authH := NewAuthHandler(auth, cookieSecure)
	listingH := NewListingHandler(auction)

	public := func(h http.HandlerFunc) http.Handler { return OptionalAuth(auth, h) }
	private := func(h http.HandlerFunc) http.Handler { return RequireAuth(auth, h) }
	limited := func(h http.HandlerFunc) http.Handler { return RateLimit(limiter, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("GET /{$}", public(listingH.HandleIndex))
	mux.Handle("GET /categories", public(listingH.HandleCategories))
	mux.Handle("GET /categories/{name}", public(listingH.HandleCategory))
	mux.Handle("GET /listing/{id}", public(listingH.HandleListing))

	mux.Handle("GET /listings/me", private(listingH.HandleMine))
	mux.Handle("GET /create", private(listingH.HandleCreatePage))
	mux.Handle("POST /create", private(listingH.HandleCreate))
	mux.Handle("POST /bid/{id}", private(listingH.HandleBid))
	mux.Handle("POST /comment/{id}", private(listingH.HandleComment))
	mux.Handle("POST /close/{id}", private(listingH.HandleClose))
	mux.Handle("POST /watch/{id}", private(listingH.HandleWatch))
	mux.Handle("GET /watchlist", private(listingH.HandleWatchlist))

	mux.Handle("GET /login", public(authH.HandleLoginPage))
	mux.Handle("POST /login", limited(authH.HandleLogin))
	mux.Handle("GET /register", public(authH.HandleRegisterPage))
	mux.Handle("POST /register", limited(authH.HandleRegister))
	mux.HandleFunc("GET /logout", authH.HandleLogout)
	mux.HandleFunc("POST /logout", authH.HandleLogout)

	mux.Handle("/", public(HandleNotFound))
}
