package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/auction-house/internal/domain"
)

// commentRepo implements domain.CommentRepository using SQLite.
type commentRepo struct {
	db *sql.DB
}

func (r *commentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (listing_id, author_id, content, created_at) VALUES (?, ?, ?, ?)",
		comment.ListingID, comment.AuthorID, comment.Content, now,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get comment id: %w", err)
	}
	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (r *commentRepo) ListByListing(ctx context.Context, listingID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.listing_id, c.author_id, c.content, c.created_at, u.username
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.listing_id = ?
		 ORDER BY c.created_at, c.id`, listingID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ListingID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
