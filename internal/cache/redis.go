package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache memoizes rendered group responses in Redis, keyed by group
// id, so repeated leaderboard hits do not re-crawl the site.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a response cache connection and verifies it with a ping.
func New(redisURL string, ttl time.Duration) (*ResponseCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &ResponseCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Close closes the Redis connection.
func (rc *ResponseCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis to verify the connection.
func (rc *ResponseCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func key(groupID string) string {
	return "gridiron:group:" + groupID
}

// Get returns the cached response body for a group, if present.
func (rc *ResponseCache) Get(ctx context.Context, groupID string) ([]byte, bool) {
	data, err := rc.client.Get(ctx, key(groupID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the rendered response body for a group with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, groupID string, body []byte) error {
	return rc.client.Set(ctx, key(groupID), body, rc.ttl).Err()
}

// Invalidate removes a group's cached response.
func (rc *ResponseCache) Invalidate(ctx context.Context, groupID string) error {
	return rc.client.Del(ctx, key(groupID)).Err()
}
