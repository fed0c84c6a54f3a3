package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/service"
	"github.com/msomdec/auction-house/internal/view"
)

// ListingHandler serves listing browsing, creation, bidding, comments and
// closing.
type ListingHandler struct {
	auction *service.AuctionService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(auction *service.AuctionService) *ListingHandler {
	return &ListingHandler{auction: auction}
}

// HandleIndex renders active listings.
// GET /
func (h *ListingHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := h.auction.ListActive(r.Context(), "", pageParam(r))
	if err != nil {
		serviceError(w, r, "list active listings", err)
		return
	}
	h.renderGrid(w, r, "Active Listings", page, "No active listings.")
}

// HandleMine renders the current user's listings, open and closed.
// GET /listings/me
func (h *ListingHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	page, err := h.auction.ListByAuthor(r.Context(), UserFromContext(r.Context()), pageParam(r))
	if err != nil {
		serviceError(w, r, "list own listings", err)
		return
	}
	h.renderGrid(w, r, "My Listings", page, "You have not created any listings.")
}

// HandleWatchlist renders the listings the current user watches.
// GET /watchlist
func (h *ListingHandler) HandleWatchlist(w http.ResponseWriter, r *http.Request) {
	page, err := h.auction.ListWatchlist(r.Context(), UserFromContext(r.Context()), pageParam(r))
	if err != nil {
		serviceError(w, r, "list watchlist", err)
		return
	}
	h.renderGrid(w, r, "Watchlist", page, "Your watchlist is empty.")
}

func (h *ListingHandler) renderGrid(w http.ResponseWriter, r *http.Request, heading string, page domain.Page[domain.Listing], empty string) {
	render(w, r, http.StatusOK, view.ListingsPage(view.ListingsData{
		Layout:  layoutFor(w, r, heading),
		Heading: heading,
		Page:    page,
		Empty:   empty,
	}))
}

// HandleListing renders a single listing.
// GET /listing/{id}
func (h *ListingHandler) HandleListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		HandleNotFound(w, r)
		return
	}
	h.renderListing(w, r, http.StatusOK, id, nil)
}

// renderListing loads and renders a listing page; edit fills in form state
// when a submission is being redisplayed.
func (h *ListingHandler) renderListing(w http.ResponseWriter, r *http.Request, status int, id int64, edit func(*view.ListingData)) {
	user := UserFromContext(r.Context())

	detail, err := h.auction.GetListing(r.Context(), user, id)
	if err != nil {
		serviceError(w, r, "get listing", err)
		return
	}

	l := detail.Listing
	data := view.ListingData{
		Layout: layoutFor(w, r, l.Title),
		Detail: detail,
		Watch:  view.WatchState{ListingID: l.ID, Watching: detail.IsWatching},
	}
	if user != nil {
		data.IsAuthor = l.AuthorID == user.ID
		data.ViewerWon = l.WinnerID != nil && *l.WinnerID == user.ID
	}
	if edit != nil {
		edit(&data)
	}

	render(w, r, status, view.ListingPage(data))
}

// HandleCreatePage renders the create-listing form.
// GET /create
func (h *ListingHandler) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	h.renderCreate(w, r, http.StatusOK, service.ListingInput{}, nil)
}

// HandleCreate creates a listing from the submitted form.
// POST /create
func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := service.ListingInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
		ImageURL:    r.PostFormValue("image_url"),
		Category:    r.PostFormValue("category"),
	}

	_, err := h.auction.CreateListing(r.Context(), UserFromContext(r.Context()), in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderCreate(w, r, http.StatusUnprocessableEntity, in, verr.Fields)
			return
		}
		serviceError(w, r, "create listing", err)
		return
	}

	setFlash(w, "success", "Your listing was created.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ListingHandler) renderCreate(w http.ResponseWriter, r *http.Request, status int, in service.ListingInput, fieldErrs map[string]string) {
	categories, err := h.auction.ListCategories(r.Context())
	if err != nil {
		serviceError(w, r, "list categories", err)
		return
	}
	render(w, r, status, view.CreatePage(view.CreateData{
		Layout:     layoutFor(w, r, "Create Listing"),
		Categories: categories,
		Input:      in,
		Errors:     fieldErrs,
	}))
}

// HandleBid places a bid and redirects back to the listing.
// POST /bid/{id}
func (h *ListingHandler) HandleBid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		HandleNotFound(w, r)
		return
	}

	in := service.BidInput{Price: r.PostFormValue("price")}
	res, err := h.auction.PlaceBid(r.Context(), UserFromContext(r.Context()), id, in)
	if err != nil {
		serviceError(w, r, "place bid", err)
		return
	}

	switch res.Outcome {
	case service.BidInvalid:
		h.renderListing(w, r, http.StatusUnprocessableEntity, id, func(d *view.ListingData) {
			d.BidPrice = in.Price
			d.BidErrors = res.Errors
		})
		return
	case service.BidTooLow:
		setFlash(w, "warning", "Your bid must be greater than the current price.")
	case service.BidAccepted:
		setFlash(w, "success", "Your bid was updated successfully.")
	}
	http.Redirect(w, r, listingURL(id), http.StatusSeeOther)
}

// HandleComment adds a comment and redirects back to the listing.
// POST /comment/{id}
func (h *ListingHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		HandleNotFound(w, r)
		return
	}

	in := service.CommentInput{Content: r.PostFormValue("content")}
	if _, err := h.auction.AddComment(r.Context(), UserFromContext(r.Context()), id, in); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderListing(w, r, http.StatusUnprocessableEntity, id, func(d *view.ListingData) {
				d.CommentContent = in.Content
				d.CommentErrors = verr.Fields
			})
			return
		}
		serviceError(w, r, "add comment", err)
		return
	}

	http.Redirect(w, r, listingURL(id), http.StatusSeeOther)
}

// HandleClose closes the auction and announces the winner.
// POST /close/{id}
func (h *ListingHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		HandleNotFound(w, r)
		return
	}

	res, err := h.auction.CloseListing(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		serviceError(w, r, "close listing", err)
		return
	}

	switch {
	case res.Winner != nil:
		setFlash(w, "success", "User "+res.Winner.Username+" has won")
	case res.Closed:
		setFlash(w, "info", "The auction was closed without any bids.")
	}
	http.Redirect(w, r, listingURL(id), http.StatusSeeOther)
}
