package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

const dedupTTL = time.Hour

// DedupStore remembers which notifications were already delivered.
// Key format: notify:<event>:<reference>:<recipient>
type DedupStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDedupStore creates a DedupStore wrapping the given Redis client.
func NewDedupStore(client redis.Cmdable) *DedupStore {
	return &DedupStore{client: client, ttl: dedupTTL}
}

// IsDuplicate reports whether this notification has already been sent.
func (d *DedupStore) IsDuplicate(ctx context.Context, n domain.Notification) (bool, error) {
	count, err := d.client.Exists(ctx, dedupKey(n)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return count > 0, nil
}

// Mark records the notification as sent until the TTL expires.
func (d *DedupStore) Mark(ctx context.Context, n domain.Notification) error {
	return d.client.Set(ctx, dedupKey(n), "1", d.ttl).Err()
}

func dedupKey(n domain.Notification) string {
	return fmt.Sprintf("notify:%s:%s:%s", n.Event, n.Reference, n.To)
}
