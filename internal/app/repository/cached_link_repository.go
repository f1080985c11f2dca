package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sifan077/shortlink/internal/app/model"
	"go.uber.org/zap"
)

const (
	linkKeyPrefix   = "shortlink:link:"
	DefaultCacheTTL = 24 * time.Hour
)

// CachedLinkRepository serves FindByCode from Redis (cache-aside).
// Links never change after insert, so entries cannot go stale; the TTL only
// bounds memory. Cache errors are logged and never fail a call.
type CachedLinkRepository struct {
	inner  LinkRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedLinkRepository wraps inner with a Redis read cache.
func NewCachedLinkRepository(inner LinkRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedLinkRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLinkRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func linkCacheKey(code string) string {
	return linkKeyPrefix + code
}

func (r *CachedLinkRepository) Insert(ctx context.Context, link *model.Link) error {
	if err := r.inner.Insert(ctx, link); err != nil {
		return err
	}
	r.store(ctx, link)
	return nil
}

func (r *CachedLinkRepository) FindByCode(ctx context.Context, code string) (*model.Link, error) {
	key := linkCacheKey(code)

	data, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var link model.Link
		if jsonErr := json.Unmarshal(data, &link); jsonErr == nil {
			return &link, nil
		}
		r.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
		if delErr := r.cache.Del(ctx, key).Err(); delErr != nil {
			r.logger.Warn("failed to delete cache entry", zap.String("key", key), zap.Error(delErr))
		}
	case errors.Is(err, redis.Nil):
		// miss
	default:
		r.logger.Warn("link cache read failed", zap.String("code", code), zap.Error(err))
	}

	link, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	r.store(ctx, link)
	return link, nil
}

// ListByOwner is not cached; the dashboard wants storage order.
func (r *CachedLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Link, error) {
	return r.inner.ListByOwner(ctx, ownerID)
}

func (r *CachedLinkRepository) store(ctx context.Context, link *model.Link) {
	data, err := json.Marshal(link)
	if err != nil {
		r.logger.Warn("failed to encode link for cache", zap.String("code", link.ShortCode), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, linkCacheKey(link.ShortCode), data, r.ttl).Err(); err != nil {
		r.logger.Warn("link cache write failed", zap.String("code", link.ShortCode), zap.Error(err))
	}
}
