package domain

import (
	"context"
	"time"
)

// Bid is an offer of Price on a listing. Bids are never updated or deleted
// except through cascades.
type Bid struct {
	ID        int64
	ListingID int64
	UserID    int64
	Price     Money
	CreatedAt time.Time

	BidderName string // populated on reads
}

// BidRepository defines read operations for bids. Bids are written through
// ListingRepository.RaisePrice so the price check and insert share a
// transaction.
type BidRepository interface {
	CountByListing(ctx context.Context, listingID int64) (int, error)
	// Latest returns the most recently placed bid on the listing, with
	// BidderName populated.
	Latest(ctx context.Context, listingID int64) (*Bid, error)
}
