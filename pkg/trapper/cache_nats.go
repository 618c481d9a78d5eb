package trapper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSKVConfig configures the NATS JetStream KV cache.
type NATSKVConfig struct {
	// URL of the NATS server. Ignored when Conn is set.
	URL string

	// Bucket is the KV bucket name; it is created when missing.
	Bucket string

	// TTL is the bucket-level max age of entries.
	TTL time.Duration

	// Conn reuses an existing connection. The cache does not close it.
	Conn *nats.Conn
}

// NATSKVCache stores pages in a NATS JetStream key-value bucket.
type NATSKVCache struct {
	conn   *nats.Conn
	owned  bool
	kv     nats.KeyValue
	bucket string
}

// NewNATSKVCache connects to NATS and opens (or creates) the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = "trapper_pages"
	}

	conn := config.Conn
	owned := false

	if conn == nil {
		url := config.URL
		if url == "" {
			url = nats.DefaultURL
		}

		var err error

		conn, err = nats.Connect(url, nats.Name("trapper-client"))
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		owned = true
	}

	js, err := conn.JetStream()
	if err != nil {
		closeOwned(conn, owned)

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "Trapper API page cache",
			TTL:         config.TTL,
		})
	}

	if err != nil {
		closeOwned(conn, owned)

		return nil, fmt.Errorf("opening KV bucket %s: %w", bucket, err)
	}

	return &NATSKVCache{conn: conn, owned: owned, kv: kv, bucket: bucket}, nil
}

func closeOwned(conn *nats.Conn, owned bool) {
	if owned {
		conn.Close()
	}
}

// Get returns the entry for key.
func (c *NATSKVCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	item, err := c.kv.Get(natsKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}

	if err != nil {
		return nil, fmt.Errorf("nats kv get: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(item.Value(), &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.IsExpired() {
		_ = c.kv.Delete(natsKey(key))

		return nil, ErrCacheEntryExpired
	}

	return &entry, nil
}

// Set stores entry under key.
func (c *NATSKVCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if _, err := c.kv.Put(natsKey(key), data); err != nil {
		return fmt.Errorf("nats kv put: %w", err)
	}

	return nil
}

// Delete removes key.
func (c *NATSKVCache) Delete(_ context.Context, key string) error {
	if err := c.kv.Delete(natsKey(key)); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("nats kv delete: %w", err)
	}

	return nil
}

// Clear removes every key of the bucket.
func (c *NATSKVCache) Clear(_ context.Context) error {
	keys, err := c.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("nats kv keys: %w", err)
	}

	for _, key := range keys {
		if err := c.kv.Delete(key); err != nil {
			return fmt.Errorf("nats kv delete: %w", err)
		}
	}

	return nil
}

// Has reports whether a fresh entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close closes the connection when the cache opened it.
func (c *NATSKVCache) Close() {
	closeOwned(c.conn, c.owned)
}

// natsKey maps a cache key onto the KV key alphabet, which has no ':'.
func natsKey(key string) string {
	out := []byte(key)
	for i, b := range out {
		if b == ':' {
			out[i] = '.'
		}
	}

	return string(out)
}
