package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/auction-house/internal/domain"
)

// bidRepo implements domain.BidRepository using SQLite.
type bidRepo struct {
	db *sql.DB
}

func (r *bidRepo) CountByListing(ctx context.Context, listingID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bids WHERE listing_id = ?", listingID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bids: %w", err)
	}
	return n, nil
}

func (r *bidRepo) Latest(ctx context.Context, listingID int64) (*domain.Bid, error) {
	b := &domain.Bid{}
	err := r.db.QueryRowContext(ctx,
		`SELECT b.id, b.listing_id, b.user_id, b.price, b.created_at, u.username
		 FROM bids b JOIN users u ON u.id = b.user_id
		 WHERE b.listing_id = ?
		 ORDER BY b.created_at DESC, b.id DESC LIMIT 1`, listingID,
	).Scan(&b.ID, &b.ListingID, &b.UserID, &b.Price, &b.CreatedAt, &b.BidderName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("latest bid: %w", err)
	}
	return b, nil
}
