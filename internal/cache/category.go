// Package cache provides Redis-backed decorators for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msomdec/auction-house/internal/domain"
)

// CategoryRepository decorates a domain.CategoryRepository with a Redis
// read-through cache of the full category list. A nil client disables
// caching and every call goes to the inner repository.
type CategoryRepository struct {
	inner     domain.CategoryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCategoryRepository wraps inner. If ttl is not positive it defaults to
// 5 minutes. If namespace is empty it uses "categories".
func NewCategoryRepository(rdb *redis.Client, ttl time.Duration, inner domain.CategoryRepository, namespace string) *CategoryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "categories"
	}
	return &CategoryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts the category and drops the cached list.
func (c *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := c.inner.Create(ctx, category); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.listKey()).Err() // best effort; entry expires anyway
	return nil
}

// GetByName is not cached.
func (c *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return c.inner.GetByName(ctx, name)
}

// List returns all categories, from Redis when a valid entry exists.
func (c *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []domain.Category
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CategoryRepository) listKey() string {
	return c.namespace + ":all"
}
