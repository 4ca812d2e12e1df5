package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plataforma/accounts-api/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache stores public user views in Redis for a few minutes.
// Key format: profile:<user_id>
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached view for id, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.PublicUser, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var view domain.PublicUser
	if err := json.Unmarshal(raw, &view); err != nil {
		// A corrupt entry is treated as a miss.
		return nil, nil
	}
	return &view, nil
}

func (c *ProfileCache) Set(ctx context.Context, view domain.PublicUser) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("profile cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(view.ID), raw, profileTTL).Err()
}

func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *ProfileCache) key(id string) string {
	return "profile:" + id
}
