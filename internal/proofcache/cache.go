package proofcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache retains proof URLs that were uploaded but not yet confirmed on the
// session. If connectivity drops between upload and confirm, the image is
// already hosted remotely; the retained URL lets the confirm be retried
// without re-uploading.
type Cache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// New creates a proof cache on the redis instance at addr. The connection
// is established lazily on first use.
func New(addr string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		rdb: goredis.NewClient(&goredis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func key(sessionID, orderID string) string {
	return fmt.Sprintf("proof:%s:%s", sessionID, orderID)
}

// Put retains an uploaded proof URL for a session order.
func (c *Cache) Put(ctx context.Context, sessionID, orderID, url string) error {
	if err := c.rdb.Set(ctx, key(sessionID, orderID), url, c.ttl).Err(); err != nil {
		return fmt.Errorf("proofcache: put: %w", err)
	}
	return nil
}

// Get returns the retained URL for a session order, if any.
func (c *Cache) Get(ctx context.Context, sessionID, orderID string) (string, bool, error) {
	url, err := c.rdb.Get(ctx, key(sessionID, orderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("proofcache: get: %w", err)
	}
	return url, true, nil
}

// Drop removes retained URLs once the server confirmed the delivery.
func (c *Cache) Drop(ctx context.Context, sessionID string, orderIDs ...string) error {
	if len(orderIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		keys = append(keys, key(sessionID, id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("proofcache: drop: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (c *Cache) Close() error { return c.rdb.Close() }
