package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore keeps a denylist of logged-out session tokens in Redis.
// Only the SHA-256 hash of the raw cookie value is stored, keyed until the
// token's natural expiry, so the denylist never outlives the session itself.
// A nil Redis client disables revocation: logout then degrades to clearing
// the client cookie only.
type RevocationStore struct{ rdb *redis.Client }

func NewRevocationStore(rdb *redis.Client) *RevocationStore { return &RevocationStore{rdb: rdb} }

const revokedKeyPrefix = "session:revoked:"

// Revoke marks a session token hash as logged out for the given TTL.
// Revoking twice, or with no Redis configured, is not an error.
func (s *RevocationStore) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if ttl <= 0 {
		return nil // already expired; nothing to deny
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+tokenHash, 1, ttl).Err()
}

// IsRevoked reports whether a session token hash has been logged out.
// Redis errors fail open: an unreachable denylist must not lock every
// physician out of the application.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenHash string) bool {
	if s == nil || s.rdb == nil {
		return false
	}
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+tokenHash).Result()
	if err != nil {
		return false
	}
	return n > 0
}
