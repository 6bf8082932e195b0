package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// RedisAdapter stores the encoded catalog and view as plain string keys,
// optionally namespaced by a prefix.
type RedisAdapter struct {
	client *redis.Client
	prefix string
}

func NewRedisAdapter(client *redis.Client, prefix string) *RedisAdapter {
	return &RedisAdapter{client: client, prefix: prefix}
}

func (r *RedisAdapter) LoadCatalog(ctx context.Context) ([]domain.ProductRecord, error) {
	raw, err := r.get(ctx, CatalogKey)
	if err != nil {
		return nil, err
	}
	return decodeCatalog(raw)
}

func (r *RedisAdapter) SaveCatalog(ctx context.Context, records []domain.ProductRecord) error {
	raw, err := encodeCatalog(records)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(CatalogKey), raw, 0).Err()
}

func (r *RedisAdapter) LoadView(ctx context.Context) (domain.ViewMode, error) {
	raw, err := r.get(ctx, ViewKey)
	if err != nil {
		return "", err
	}
	return domain.ViewOrDefault(raw), nil
}

func (r *RedisAdapter) SaveView(ctx context.Context, view domain.ViewMode) error {
	return r.client.Set(ctx, r.key(ViewKey), string(view), 0).Err()
}

func (r *RedisAdapter) get(ctx context.Context, name string) (string, error) {
	raw, err := r.client.Get(ctx, r.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", name, err)
	}
	return raw, nil
}

func (r *RedisAdapter) key(name string) string {
	return r.prefix + name
}
