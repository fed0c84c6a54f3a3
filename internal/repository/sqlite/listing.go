package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/auction-house/internal/domain"
)

// listingRepo implements domain.ListingRepository using SQLite.
type listingRepo struct {
	db *sql.DB
}

const listingColumns = `l.id, l.title, l.description, l.price, l.category_id, l.image_url,
	l.is_active, l.winner_id, l.author_id, l.created_at,
	a.username, COALESCE(c.name, ''), COALESCE(wu.username, '')`

const listingJoins = `FROM listings l
	JOIN users a ON a.id = l.author_id
	LEFT JOIN categories c ON c.id = l.category_id
	LEFT JOIN users wu ON wu.id = l.winner_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (domain.Listing, error) {
	var (
		l        domain.Listing
		category sql.NullInt64
		winner   sql.NullInt64
	)
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Price, &category, &l.ImageURL,
		&l.IsActive, &winner, &l.AuthorID, &l.CreatedAt,
		&l.AuthorName, &l.CategoryName, &l.WinnerName)
	if err != nil {
		return domain.Listing{}, err
	}
	l.CategoryID = int64Ptr(category)
	l.WinnerID = int64Ptr(winner)
	return l, nil
}

func (r *listingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO listings (title, description, price, category_id, image_url, is_active, author_id, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		listing.Title, listing.Description, listing.Price, nullInt64(listing.CategoryID),
		listing.ImageURL, listing.AuthorID, now,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get listing id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO listing_watchers (listing_id, user_id) VALUES (?, ?)", id, listing.AuthorID,
	); err != nil {
		return fmt.Errorf("watch own listing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	listing.ID = id
	listing.IsActive = true
	listing.WinnerID = nil
	listing.CreatedAt = now
	return nil
}

func (r *listingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx,
		"SELECT "+listingColumns+" "+listingJoins+" WHERE l.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

func (r *listingRepo) List(ctx context.Context, filter domain.ListingFilter, limit, offset int) ([]domain.Listing, error) {
	where, args := filterClause(filter)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listingColumns+" "+listingJoins+where+
			" ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return collectListings(rows)
}

func (r *listingRepo) Count(ctx context.Context, filter domain.ListingFilter) (int, error) {
	where, args := filterClause(filter)

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings l"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

func (r *listingRepo) RaisePrice(ctx context.Context, bid *domain.Bid) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE listings SET price = ?
		 WHERE id = ? AND is_active = 1 AND price <= ?`,
		bid.Price, bid.ListingID, bid.Price,
	)
	if err != nil {
		return false, fmt.Errorf("update price: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bids (listing_id, user_id, price, created_at) VALUES (?, ?, ?, ?)",
		bid.ListingID, bid.UserID, bid.Price, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert bid: %w", err)
	}
	bidID, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("get bid id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO listing_watchers (listing_id, user_id) VALUES (?, ?)",
		bid.ListingID, bid.UserID,
	); err != nil {
		return false, fmt.Errorf("watch listing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	bid.ID = bidID
	bid.CreatedAt = now
	return true, nil
}

func (r *listingRepo) Close(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var winner sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM bids WHERE listing_id = ?
		 ORDER BY price DESC, created_at ASC, id ASC LIMIT 1`, id,
	).Scan(&winner)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("find highest bid: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE listings SET is_active = 0, winner_id = ? WHERE id = ? AND is_active = 1",
		winner, id,
	)
	if err != nil {
		return false, fmt.Errorf("close listing: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func (r *listingRepo) IsWatching(ctx context.Context, listingID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM listing_watchers WHERE listing_id = ? AND user_id = ?)",
		listingID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check watcher: %w", err)
	}
	return exists, nil
}

func (r *listingRepo) AddWatcher(ctx context.Context, listingID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO listing_watchers (listing_id, user_id) VALUES (?, ?)", listingID, userID)
	if err != nil {
		return fmt.Errorf("add watcher: %w", err)
	}
	return nil
}

func (r *listingRepo) RemoveWatcher(ctx context.Context, listingID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM listing_watchers WHERE listing_id = ? AND user_id = ?", listingID, userID)
	if err != nil {
		return fmt.Errorf("remove watcher: %w", err)
	}
	return nil
}

func (r *listingRepo) ListWatched(ctx context.Context, userID int64, limit, offset int) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listingColumns+" "+listingJoins+`
		 JOIN listing_watchers lw ON lw.listing_id = l.id
		 WHERE lw.user_id = ?
		 ORDER BY CASE WHEN l.winner_id = ? THEN 1 ELSE 0 END,
		          l.created_at DESC, l.id DESC
		 LIMIT ? OFFSET ?`,
		userID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list watched: %w", err)
	}
	return collectListings(rows)
}

func (r *listingRepo) CountWatched(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM listing_watchers WHERE user_id = ?", userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count watched: %w", err)
	}
	return n, nil
}

func filterClause(f domain.ListingFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.ActiveOnly {
		conds = append(conds, "l.is_active = 1")
	}
	if f.CategoryID != 0 {
		conds = append(conds, "l.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.AuthorID != 0 {
		conds = append(conds, "l.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func collectListings(rows *sql.Rows) ([]domain.Listing, error) {
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
