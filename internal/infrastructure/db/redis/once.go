package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const onceTTL = time.Hour

// OnceMarker records that a lifecycle event has been delivered so that other
// replicas skip it. Key format: lifecycle:once:<event_id>
type OnceMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOnceMarker creates a OnceMarker wrapping the given Redis client.
func NewOnceMarker(client *redis.Client) *OnceMarker {
	return &OnceMarker{client: client, ttl: onceTTL}
}

// MarkOnce reports true for the first caller with this event id and false for
// every later one until the key expires.
func (m *OnceMarker) MarkOnce(ctx context.Context, eventID string) (bool, error) {
	ok, err := m.client.SetNX(ctx, onceKey(eventID), "1", m.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("once marker: %w", err)
	}
	return ok, nil
}

func onceKey(eventID string) string {
	return "lifecycle:once:" + eventID
}
