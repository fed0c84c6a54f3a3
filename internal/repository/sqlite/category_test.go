package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/auction-house/internal/domain"
)

func TestCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := db.Categories()
	ctx := context.Background()

	for _, name := range []string{"Toys", "Books", "Electronics"} {
		if err := repo.Create(ctx, &domain.Category{Name: name}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	if err := repo.Create(ctx, &domain.Category{Name: "Books"}); !errors.Is(err, domain.ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Books", "Electronics", "Toys"}
	if len(list) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(list))
	}
	for i, c := range list {
		if c.Name != want[i] {
			t.Fatalf("category %d: expected %q, got %q", i, want[i], c.Name)
		}
	}

	got, err := repo.GetByName(ctx, "Toys")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.ID == 0 || got.Name != "Toys" {
		t.Fatalf("unexpected category %+v", got)
	}

	if _, err := repo.GetByName(ctx, "Garden"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
