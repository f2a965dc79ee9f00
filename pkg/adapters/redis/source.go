package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Source implements ports.DocumentSource using Redis.
// Each document is a plain string key; a sorted set indexes the stored keys
// so List does not need SCAN.
type Source struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Source)

// WithTTL sets the expiration for stored documents.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for documents.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// New creates a new Redis source with options.
func New(address, password string, db int, opts ...Option) *Source {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis source from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Source {
	source := &Source{
		client: client,
		prefix: "arbor:doc:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(source)
	}

	return source
}

func (s *Source) key(name string) string {
	return s.prefix + name
}

func (s *Source) indexKey() string {
	return "index:" + s.prefix
}

// Put stores a document and records it in the index.
// The index score is the expiry time (0 for documents that never expire).
func (s *Source) Put(ctx context.Context, key string, markup []byte) error {
	var score float64
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(key), markup, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: key})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store document %s: %w", key, err)
	}
	return nil
}

// Fetch retrieves a document.
func (s *Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", ports.ErrDocumentNotFound, key)
		}
		return nil, fmt.Errorf("failed to fetch document %s: %w", key, err)
	}
	return data, nil
}

// Delete removes a document and its index entry.
func (s *Source) Delete(ctx context.Context, key string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(key))
	pipe.ZRem(ctx, s.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}

// List returns the keys of all stored documents, pruning expired index entries first.
func (s *Source) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "(0", now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune document index: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the Redis client.
func (s *Source) Close() error {
	return s.client.Close()
}
