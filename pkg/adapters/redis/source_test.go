package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/ports"
	contract "github.com/aretw0/arbor/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T, opts ...redis.Option) (*redis.Source, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	src := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = src.Close() })
	return src, mr
}

func TestRedisSource_Contract(t *testing.T) {
	src, _ := newSource(t)
	ctx := context.Background()

	data := map[string][]byte{
		"world":   []byte("<object/>"),
		"ui/main": []byte("<frame/>"),
	}
	for k, v := range data {
		require.NoError(t, src.Put(ctx, k, v))
	}

	contract.DocumentSourceContractTest(t, src, data)
}

func TestRedisSource_PrefixAndDelete(t *testing.T) {
	src, mr := newSource(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, src.Put(ctx, "a", []byte("<a/>")))
	got, err := mr.Get("test:a")
	require.NoError(t, err)
	assert.Equal(t, "<a/>", got)

	require.NoError(t, src.Delete(ctx, "a"))
	_, err = src.Fetch(ctx, "a")
	assert.True(t, errors.Is(err, ports.ErrDocumentNotFound))

	keys, err := src.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisSource_TTL(t *testing.T) {
	src, mr := newSource(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, src.Put(ctx, "a", []byte("<a/>")))
	assert.Equal(t, time.Minute, mr.TTL("arbor:doc:a"))

	mr.FastForward(2 * time.Minute)
	_, err := src.Fetch(ctx, "a")
	assert.ErrorIs(t, err, ports.ErrDocumentNotFound)
}
