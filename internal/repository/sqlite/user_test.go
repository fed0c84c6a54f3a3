package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/repository/sqlite"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	user := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hashedpw"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Username: "dup", PasswordHash: "hash1"}); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	err := repo.Create(ctx, &domain.User{Username: "dup", Email: "other@example.com", PasswordHash: "hash2"})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "byid")

	found, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Username != "byid" {
		t.Fatalf("expected username %q, got %q", "byid", found.Username)
	}
	if found.Email != "byid@example.com" {
		t.Fatalf("expected email %q, got %q", "byid@example.com", found.Email)
	}

	if _, err := repo.GetByID(ctx, 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "byname")

	found, err := repo.GetByUsername(ctx, "byname")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if found.ID != user.ID {
		t.Fatalf("expected id %d, got %d", user.ID, found.ID)
	}

	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seller := seedUser(t, db, "seller")
	buyer := seedUser(t, db, "buyer")
	listing := seedListing(t, db, seller, "Lamp", 1000)

	if ok, err := db.Listings().RaisePrice(ctx, &domain.Bid{ListingID: listing.ID, UserID: buyer.ID, Price: 1500}); err != nil || !ok {
		t.Fatalf("RaisePrice: ok=%v err=%v", ok, err)
	}
	if err := db.Comments().Create(ctx, &domain.Comment{ListingID: listing.ID, AuthorID: buyer.ID, Content: "nice"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := db.Users().Delete(ctx, buyer.ID); err != nil {
		t.Fatalf("Delete buyer: %v", err)
	}
	if n, _ := db.Bids().CountByListing(ctx, listing.ID); n != 0 {
		t.Fatalf("expected buyer's bids to be removed, got %d", n)
	}
	if comments, _ := db.Comments().ListByListing(ctx, listing.ID); len(comments) != 0 {
		t.Fatalf("expected buyer's comments to be removed, got %d", len(comments))
	}

	if err := db.Users().Delete(ctx, seller.ID); err != nil {
		t.Fatalf("Delete seller: %v", err)
	}
	if _, err := db.Listings().GetByID(ctx, listing.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected listing to be removed with its author, got %v", err)
	}

	if err := db.Users().Delete(ctx, seller.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
