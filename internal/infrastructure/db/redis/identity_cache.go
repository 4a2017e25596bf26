package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

const DefaultIdentityTTL = 5 * time.Minute

// IdentityCache keeps resolved identities in Redis so authenticated requests
// skip the user store lookup.
// Key format: identity:<email>
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityCache wraps client. A non-positive ttl falls back to DefaultIdentityTTL.
func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	if ttl <= 0 {
		ttl = DefaultIdentityTTL
	}
	return &IdentityCache{client: client, ttl: ttl}
}

type cachedIdentity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Get reports a miss as (zero, false, nil).
func (c *IdentityCache) Get(ctx context.Context, email string) (domain.Identity, bool, error) {
	raw, err := c.client.Get(ctx, identityKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("identity cache get: %w", err)
	}
	return decodeIdentity(raw)
}

func (c *IdentityCache) Set(ctx context.Context, id domain.Identity) error {
	raw, err := encodeIdentity(id)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, identityKey(id.Email), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("identity cache set: %w", err)
	}
	return nil
}

func identityKey(email string) string {
	return "identity:" + email
}

func encodeIdentity(id domain.Identity) ([]byte, error) {
	raw, err := json.Marshal(cachedIdentity{UserID: id.UserID, Email: id.Email, Role: string(id.Role)})
	if err != nil {
		return nil, fmt.Errorf("identity cache encode: %w", err)
	}
	return raw, nil
}

// decodeIdentity treats an unreadable entry as a miss.
func decodeIdentity(raw []byte) (domain.Identity, bool, error) {
	var c cachedIdentity
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Identity{}, false, nil
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil || c.UserID == "" {
		return domain.Identity{}, false, nil
	}
	return domain.Identity{UserID: c.UserID, Email: c.Email, Role: role}, true, nil
}
