package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/portstu/backend/internal/models"
	"go.uber.org/zap"
)

const userCachePrefix = "user:"

// UserGetter loads users by ID
type UserGetter interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type cachedUserRepository struct {
	next   UserGetter
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps a user repository with a Redis read-through cache.
// Cache failures are logged and fall through to the wrapped repository.
func NewCachedUserRepository(next UserGetter, client *redis.Client, ttl time.Duration, logger *zap.Logger) *cachedUserRepository {
	return &cachedUserRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByID returns the cached user or loads and caches it.
// Missing users are not cached.
func (r *cachedUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	key := userCacheKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user models.User
		if err := json.Unmarshal(data, &user); err == nil {
			return &user, nil
		}
		r.logger.Warn("dropping corrupt user cache entry", zap.Int("user_id", id))
		if err := r.client.Del(ctx, key).Err(); err != nil {
			r.logger.Warn("failed to drop corrupt user cache entry", zap.Int("user_id", id), zap.Error(err))
		}
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("user cache unavailable", zap.Error(err))
	}

	user, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Warn("failed to cache user", zap.Int("user_id", id), zap.Error(err))
		}
	}

	return user, nil
}

func userCacheKey(id int) string {
	return fmt.Sprintf("%s%d", userCachePrefix, id)
}
