package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:revoked:"

// Denylist tracks revoked token IDs in Redis until they expire on their own.
type Denylist struct {
	client *redis.Client
}

// NewDenylist wraps a redis client. A nil client disables revocation checks.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Revoke marks a token ID revoked for the remainder of its lifetime.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if d == nil || d.client == nil {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token ID was revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) bool {
	if d == nil || d.client == nil {
		return false
	}
	n, err := d.client.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		// fail open: an unreachable cache must not lock everyone out
		return false
	}
	return n > 0
}
