package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/auction-house/internal/domain"
)

type categoryInput struct {
	Name string `form:"name" validate:"required,max=64"`
}

// AddCategory creates a category with the given name.
func (s *AuctionService) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	in := categoryInput{Name: strings.TrimSpace(name)}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	c := &domain.Category{Name: in.Name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category %q: %w", in.Name, err)
	}
	return c, nil
}

// SeedCategories creates each named category that does not exist yet and
// returns how many were added.
func (s *AuctionService) SeedCategories(ctx context.Context, names []string) (int, error) {
	added := 0
	for _, name := range names {
		_, err := s.AddCategory(ctx, name)
		switch {
		case err == nil:
			added++
		case errors.Is(err, domain.ErrDuplicateCategory):
		default:
			return added, err
		}
	}
	return added, nil
}
