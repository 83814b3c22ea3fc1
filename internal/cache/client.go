package cache

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client adapts a Redis connection to the Store interface. A Client is never
// nil: when the server cannot be reached at startup, Connect returns a
// degraded handle whose operations fail with ErrUnavailable, so callers
// always hold a usable value and readers simply skip the cache.
type Client struct {
	rdb    *redis.Client
	reason string
}

// Options carries the connection settings for the cache store.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect dials Redis and verifies the connection with a ping. On failure it
// returns a degraded Client instead of an error so the service can keep
// serving from the database alone.
func Connect(opts Options) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return &Client{reason: err.Error()}
	}
	return &Client{rdb: rdb}
}

// Unavailable builds a degraded handle, useful in tests and when the cache is
// disabled outright.
func Unavailable(reason string) *Client {
	return &Client{reason: reason}
}

// Available reports whether the handle is backed by a live connection.
func (c *Client) Available() bool {
	return c != nil && c.rdb != nil
}

// Reason returns why the handle is degraded, empty when it is not.
func (c *Client) Reason() string {
	if c == nil {
		return "not configured"
	}
	return c.reason
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	return raw, err
}

func (c *Client) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.Available() {
		return ErrUnavailable
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.Available() {
		return ErrUnavailable
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeleteKey removes one key and reports whether it existed.
func (c *Client) DeleteKey(ctx context.Context, key string) (bool, error) {
	if !c.Available() {
		return false, ErrUnavailable
	}
	n, err := c.rdb.Del(ctx, key).Result()
	return n > 0, err
}

func (c *Client) Scan(ctx context.Context, pattern string) ([]string, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.Available() {
		return ErrUnavailable
	}
	return c.rdb.Ping(ctx).Err()
}

// TTL returns the remaining lifetime of a key. Negative values follow Redis
// semantics (-1 no expiry, -2 missing key).
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	if !c.Available() {
		return 0, ErrUnavailable
	}
	return c.rdb.TTL(ctx, key).Result()
}

// FlushDB removes every key in the configured database.
func (c *Client) FlushDB(ctx context.Context) error {
	if !c.Available() {
		return ErrUnavailable
	}
	return c.rdb.FlushDB(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if !c.Available() {
		return nil
	}
	return c.rdb.Close()
}

// Stats summarizes server counters used by the cache admin endpoints.
type Stats struct {
	ConnectedClients int64  `json:"connected_clients"`
	UsedMemoryHuman  string `json:"used_memory_human"`
	TotalKeys        int64  `json:"total_keys"`
	KeyspaceHits     int64  `json:"keyspace_hits"`
	KeyspaceMisses   int64  `json:"keyspace_misses"`
}

// HitRate returns the hit percentage rounded to two decimals, zero when no
// lookups were recorded yet.
func (s Stats) HitRate() float64 {
	total := s.KeyspaceHits + s.KeyspaceMisses
	if total == 0 {
		return 0
	}
	rate := float64(s.KeyspaceHits) / float64(total) * 100
	return float64(int64(rate*100+0.5)) / 100
}

// Stats collects INFO counters plus the current key count.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	if !c.Available() {
		return Stats{}, ErrUnavailable
	}
	info, err := c.rdb.Info(ctx, "clients", "memory", "stats").Result()
	if err != nil {
		return Stats{}, err
	}
	stats := parseInfo(info)
	size, err := c.rdb.DBSize(ctx).Result()
	if err != nil {
		return Stats{}, err
	}
	stats.TotalKeys = size
	return stats, nil
}

func parseInfo(info string) Stats {
	var stats Stats
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch name {
		case "connected_clients":
			stats.ConnectedClients, _ = strconv.ParseInt(value, 10, 64)
		case "used_memory_human":
			stats.UsedMemoryHuman = value
		case "keyspace_hits":
			stats.KeyspaceHits, _ = strconv.ParseInt(value, 10, 64)
		case "keyspace_misses":
			stats.KeyspaceMisses, _ = strconv.ParseInt(value, 10, 64)
		}
	}
	return stats
}
