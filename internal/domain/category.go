package domain

import "context"

// Category is a unique label that listings may be filed under.
type Category struct {
	ID   int64
	Name string
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
}
