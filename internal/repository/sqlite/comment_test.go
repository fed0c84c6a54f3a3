package sqlite_test

import (
	"context"
	"testing"

	"github.com/msomdec/auction-house/internal/domain"
)

func TestCommentRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seller := seedUser(t, db, "seller")
	reader := seedUser(t, db, "reader")
	l := seedListing(t, db, seller, "Desk", 100)

	for _, c := range []*domain.Comment{
		{ListingID: l.ID, AuthorID: reader.ID, Content: "first"},
		{ListingID: l.ID, AuthorID: seller.ID, Content: "second"},
	} {
		if err := db.Comments().Create(ctx, c); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if c.ID == 0 || c.CreatedAt.IsZero() {
			t.Fatalf("expected id and timestamp set, got %+v", c)
		}
	}

	comments, err := db.Comments().ListByListing(ctx, l.ID)
	if err != nil {
		t.Fatalf("ListByListing: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Content != "first" || comments[0].AuthorName != "reader" {
		t.Fatalf("unexpected first comment %+v", comments[0])
	}
	if comments[1].AuthorName != "seller" {
		t.Fatalf("unexpected second comment %+v", comments[1])
	}
}
