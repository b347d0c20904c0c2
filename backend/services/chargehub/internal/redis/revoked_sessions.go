package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedSessions records signed-out session ids until their tokens expire.
type RevokedSessions struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevokedSessions returns redis-backed revocation list.
func NewRevokedSessions(client *redis.Client) *RevokedSessions {
	return &RevokedSessions{client: client, now: time.Now}
}

func (r *RevokedSessions) key(sessionID string) string {
	return fmt.Sprintf("sessions:revoked:%s", sessionID)
}

// Revoke stores sessionID with a TTL reaching until. Already expired tokens
// are not stored.
func (r *RevokedSessions) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(sessionID), until.UTC().Format(time.RFC3339), ttl).Err()
}

// IsRevoked reports whether sessionID has been signed out.
func (r *RevokedSessions) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	err := r.client.Get(ctx, r.key(sessionID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
