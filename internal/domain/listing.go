package domain

import (
	"context"
	"time"
)

// Listing is an item put up for auction by its author.
type Listing struct {
	ID          int64
	Title       string
	Description string
	Price       Money
	CategoryID  *int64
	ImageURL    string
	IsActive    bool
	WinnerID    *int64
	AuthorID    int64
	CreatedAt   time.Time

	// Populated on reads.
	AuthorName   string
	CategoryName string
	WinnerName   string
}

// ListingFilter narrows a listing query. Zero values mean "no constraint".
type ListingFilter struct {
	ActiveOnly bool
	CategoryID int64
	AuthorID   int64
}

// ListingRepository defines persistence operations for listings and their
// watcher sets.
type ListingRepository interface {
	// Create inserts the listing and adds its author to the watcher set.
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id int64) (*Listing, error)
	// List returns listings matching the filter, newest first.
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]Listing, error)
	Count(ctx context.Context, filter ListingFilter) (int, error)

	// RaisePrice atomically records a bid: it sets the listing price, inserts
	// the bid and adds the bidder to the watchers, but only while the listing
	// is active and its current price does not exceed bid.Price. It reports
	// whether the bid was applied.
	RaisePrice(ctx context.Context, bid *Bid) (bool, error)
	// Close marks an active listing inactive and, in the same transaction,
	// assigns the author of its highest bid as winner (the earliest bid among
	// equal prices; no winner without bids). It reports false when the
	// listing was already closed.
	Close(ctx context.Context, id int64) (bool, error)

	IsWatching(ctx context.Context, listingID, userID int64) (bool, error)
	AddWatcher(ctx context.Context, listingID, userID int64) error
	RemoveWatcher(ctx context.Context, listingID, userID int64) error
	// ListWatched returns the user's watched listings, those the user has not
	// won ordered before those the user has won, newest first within each.
	ListWatched(ctx context.Context, userID int64, limit, offset int) ([]Listing, error)
	CountWatched(ctx context.Context, userID int64) (int, error)
}
