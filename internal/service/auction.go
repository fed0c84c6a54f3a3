package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/auction-house/internal/domain"
)

// NoBidsYet is shown in place of the last bidder on listings without bids.
const NoBidsYet = "No bids yet"

// ListingInput is the submitted create-listing form. Category is a category
// name; empty means uncategorised.
type ListingInput struct {
	Title       string `form:"title" validate:"required,max=64"`
	Description string `form:"description" validate:"required,max=1000"`
	Price       string `form:"price" validate:"required,money"`
	ImageURL    string `form:"image_url" validate:"omitempty,http_url,max=200"`
	Category    string `form:"category" validate:"max=64"`
}

// BidInput is the submitted bid form.
type BidInput struct {
	Price string `form:"price" validate:"required,money"`
}

// CommentInput is the submitted comment form.
type CommentInput struct {
	Content string `form:"content" validate:"required,max=255"`
}

// BidOutcome classifies what happened to a submitted bid.
type BidOutcome int

const (
	// BidIgnored means the bid was dropped without feedback: the bidder
	// authored the listing or the listing is closed.
	BidIgnored BidOutcome = iota
	// BidInvalid means the form failed validation.
	BidInvalid
	// BidTooLow means the price was below the current price.
	BidTooLow
	// BidAccepted means the bid was recorded and the price raised.
	BidAccepted
)

// BidResult is returned by PlaceBid.
type BidResult struct {
	Outcome BidOutcome
	Errors  map[string]string // set for BidInvalid
}

// CloseResult is returned by CloseListing. Closed is false when the listing
// was already closed; Winner is nil when nobody bid.
type CloseResult struct {
	Closed bool
	Winner *domain.User
}

// ListingDetail is everything the listing page shows.
type ListingDetail struct {
	Listing    *domain.Listing
	BidCount   int
	LastBidder string
	IsWatching bool
	Comments   []domain.Comment
}

// AuctionService implements listing, bidding, watching and commenting.
type AuctionService struct {
	listings   domain.ListingRepository
	bids       domain.BidRepository
	comments   domain.CommentRepository
	categories domain.CategoryRepository
	users      domain.UserRepository

	closeRequiresAuthor bool
}

// NewAuctionService creates a new AuctionService. When closeRequiresAuthor
// is set only a listing's author may close it.
func NewAuctionService(
	listings domain.ListingRepository,
	bids domain.BidRepository,
	comments domain.CommentRepository,
	categories domain.CategoryRepository,
	users domain.UserRepository,
	closeRequiresAuthor bool,
) *AuctionService {
	return &AuctionService{
		listings:            listings,
		bids:                bids,
		comments:            comments,
		categories:          categories,
		users:               users,
		closeRequiresAuthor: closeRequiresAuthor,
	}
}

// ListActive returns a page of active listings, optionally restricted to the
// named category.
func (s *AuctionService) ListActive(ctx context.Context, category string, page int) (domain.Page[domain.Listing], error) {
	filter := domain.ListingFilter{ActiveOnly: true}
	if category != "" {
		c, err := s.categories.GetByName(ctx, category)
		if err != nil {
			return domain.Page[domain.Listing]{}, fmt.Errorf("get category %q: %w", category, err)
		}
		filter.CategoryID = c.ID
	}
	return s.listPage(ctx, filter, page)
}

// ListByAuthor returns a page of the user's own listings, open and closed.
func (s *AuctionService) ListByAuthor(ctx context.Context, user *domain.User, page int) (domain.Page[domain.Listing], error) {
	if user == nil {
		return domain.Page[domain.Listing]{}, domain.ErrUnauthorized
	}
	return s.listPage(ctx, domain.ListingFilter{AuthorID: user.ID}, page)
}

func (s *AuctionService) listPage(ctx context.Context, filter domain.ListingFilter, page int) (domain.Page[domain.Listing], error) {
	total, err := s.listings.Count(ctx, filter)
	if err != nil {
		return domain.Page[domain.Listing]{}, fmt.Errorf("count listings: %w", err)
	}

	number, numPages, offset := domain.ResolvePage(page, total)
	items, err := s.listings.List(ctx, filter, domain.PageSize, offset)
	if err != nil {
		return domain.Page[domain.Listing]{}, fmt.Errorf("list listings: %w", err)
	}

	return domain.Page[domain.Listing]{Items: items, Number: number, NumPages: numPages, Total: total}, nil
}

// GetListing loads a listing with its bid summary, comments and the
// viewer's watch state. viewer may be nil.
func (s *AuctionService) GetListing(ctx context.Context, viewer *domain.User, id int64) (*ListingDetail, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	detail := &ListingDetail{Listing: listing, LastBidder: NoBidsYet}

	if detail.BidCount, err = s.bids.CountByListing(ctx, id); err != nil {
		return nil, fmt.Errorf("count bids: %w", err)
	}
	if detail.BidCount > 0 {
		latest, err := s.bids.Latest(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("latest bid: %w", err)
		}
		detail.LastBidder = latest.BidderName
	}

	if viewer != nil {
		if detail.IsWatching, err = s.listings.IsWatching(ctx, id, viewer.ID); err != nil {
			return nil, fmt.Errorf("watch state: %w", err)
		}
	}

	if detail.Comments, err = s.comments.ListByListing(ctx, id); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return detail, nil
}

// CreateListing validates the input and creates an active listing owned by
// author, who starts out watching it.
func (s *AuctionService) CreateListing(ctx context.Context, author *domain.User, in ListingInput) (*domain.Listing, error) {
	if author == nil {
		return nil, domain.ErrUnauthorized
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	price, err := domain.ParseMoney(in.Price)
	if err != nil {
		return nil, fieldError("price", "Enter a valid amount.")
	}

	listing := &domain.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		ImageURL:    in.ImageURL,
		AuthorID:    author.ID,
	}

	if in.Category != "" {
		c, err := s.categories.GetByName(ctx, in.Category)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fieldError("category", "Select a valid choice.")
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
		listing.CategoryID = &c.ID
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return listing, nil
}

// PlaceBid records a bid for user on the listing. A price equal to the
// current price is accepted. Only storage failures and a missing listing
// are returned as errors.
func (s *AuctionService) PlaceBid(ctx context.Context, user *domain.User, listingID int64, in BidInput) (BidResult, error) {
	if user == nil {
		return BidResult{}, domain.ErrUnauthorized
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return BidResult{}, fmt.Errorf("get listing: %w", err)
	}
	if listing.AuthorID == user.ID || !listing.IsActive {
		return BidResult{Outcome: BidIgnored}, nil
	}

	if err := validateInput(in); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return BidResult{Outcome: BidInvalid, Errors: verr.Fields}, nil
		}
		return BidResult{}, err
	}

	price, err := domain.ParseMoney(in.Price)
	if err != nil {
		return BidResult{Outcome: BidInvalid, Errors: map[string]string{"price": "Enter a valid amount."}}, nil
	}
	if price < listing.Price {
		return BidResult{Outcome: BidTooLow}, nil
	}

	applied, err := s.listings.RaisePrice(ctx, &domain.Bid{ListingID: listingID, UserID: user.ID, Price: price})
	if err != nil {
		return BidResult{}, fmt.Errorf("raise price: %w", err)
	}
	if applied {
		return BidResult{Outcome: BidAccepted}, nil
	}

	// Lost a race: another bid raised the price or the listing was closed.
	current, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return BidResult{}, fmt.Errorf("reload listing: %w", err)
	}
	if !current.IsActive {
		return BidResult{Outcome: BidIgnored}, nil
	}
	return BidResult{Outcome: BidTooLow}, nil
}

// AddComment attaches a comment by user to the listing.
func (s *AuctionService) AddComment(ctx context.Context, user *domain.User, listingID int64, in CommentInput) (*domain.Comment, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	comment := &domain.Comment{ListingID: listingID, AuthorID: user.ID, Content: in.Content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.AuthorName = user.Username
	return comment, nil
}

// CloseListing ends the auction. The highest bid wins, the earliest among
// equal prices. Closing an already closed listing changes nothing and
// reports the existing winner.
func (s *AuctionService) CloseListing(ctx context.Context, user *domain.User, listingID int64) (CloseResult, error) {
	if user == nil {
		return CloseResult{}, domain.ErrUnauthorized
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return CloseResult{}, fmt.Errorf("get listing: %w", err)
	}
	if s.closeRequiresAuthor && listing.AuthorID != user.ID {
		return CloseResult{}, domain.ErrForbidden
	}

	closed, err := s.listings.Close(ctx, listingID)
	if err != nil {
		return CloseResult{}, fmt.Errorf("close listing: %w", err)
	}

	if closed {
		if listing, err = s.listings.GetByID(ctx, listingID); err != nil {
			return CloseResult{}, fmt.Errorf("reload listing: %w", err)
		}
	}

	result := CloseResult{Closed: closed}
	if listing.WinnerID != nil {
		if result.Winner, err = s.users.GetByID(ctx, *listing.WinnerID); err != nil {
			return CloseResult{}, fmt.Errorf("get winner: %w", err)
		}
	}
	return result, nil
}

// ToggleWatch flips the user's membership in the listing's watcher set and
// returns the new state.
func (s *AuctionService) ToggleWatch(ctx context.Context, user *domain.User, listingID int64) (bool, error) {
	if user == nil {
		return false, domain.ErrUnauthorized
	}

	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return false, fmt.Errorf("get listing: %w", err)
	}

	watching, err := s.listings.IsWatching(ctx, listingID, user.ID)
	if err != nil {
		return false, fmt.Errorf("watch state: %w", err)
	}

	if watching {
		err = s.listings.RemoveWatcher(ctx, listingID, user.ID)
	} else {
		err = s.listings.AddWatcher(ctx, listingID, user.ID)
	}
	if err != nil {
		return false, fmt.Errorf("toggle watch: %w", err)
	}
	return !watching, nil
}

// ListWatchlist returns a page of the user's watched listings, those the
// user has not won first.
func (s *AuctionService) ListWatchlist(ctx context.Context, user *domain.User, page int) (domain.Page[domain.Listing], error) {
	if user == nil {
		return domain.Page[domain.Listing]{}, domain.ErrUnauthorized
	}

	total, err := s.listings.CountWatched(ctx, user.ID)
	if err != nil {
		return domain.Page[domain.Listing]{}, fmt.Errorf("count watched: %w", err)
	}

	number, numPages, offset := domain.ResolvePage(page, total)
	items, err := s.listings.ListWatched(ctx, user.ID, domain.PageSize, offset)
	if err != nil {
		return domain.Page[domain.Listing]{}, fmt.Errorf("list watched: %w", err)
	}

	return domain.Page[domain.Listing]{Items: items, Number: number, NumPages: numPages, Total: total}, nil
}

// ListCategories returns every category ordered by name.
func (s *AuctionService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
