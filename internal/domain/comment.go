package domain

import (
	"context"
	"time"
)

// Comment is a free-text remark left on a listing.
type Comment struct {
	ID        int64
	ListingID int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time

	AuthorName string // populated on reads
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	// ListByListing returns the listing's comments, oldest first.
	ListByListing(ctx context.Context, listingID int64) ([]Comment, error)
}
