package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisIndex(t *testing.T) *RedisIndex {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisIndex(rdb, "")
}

func TestRedisIndex_DueReturnsOnlyPastDeadlines(t *testing.T) {
	ctx := context.Background()
	idx := newRedisIndex(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	past := Key{InterviewID: "iv-1", Email: "a@example.com"}
	future := Key{InterviewID: "iv-1", Email: "b@example.com"}
	require.NoError(t, idx.Track(ctx, past, now.Add(-time.Minute)))
	require.NoError(t, idx.Track(ctx, future, now.Add(time.Minute)))

	due, err := idx.Due(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, past, due[0].Key)
	assert.True(t, due[0].Deadline.Equal(now.Add(-time.Minute)))

	require.NoError(t, idx.Forget(ctx, past))
	due, err = idx.Due(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRedisIndex_TrackOverwritesDeadline(t *testing.T) {
	ctx := context.Background()
	idx := newRedisIndex(t)
	now := time.Now()
	key := Key{InterviewID: "iv-1", Email: "a@example.com"}

	require.NoError(t, idx.Track(ctx, key, now.Add(-time.Minute)))
	require.NoError(t, idx.Track(ctx, key, now.Add(time.Hour)))

	due, err := idx.Due(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestParseKey(t *testing.T) {
	k, err := parseKey("iv-1|a@example.com")
	require.NoError(t, err)
	assert.Equal(t, Key{InterviewID: "iv-1", Email: "a@example.com"}, k)

	_, err = parseKey("garbage")
	assert.Error(t, err)
}

func TestParseKey_PipeInEmailLocalPart(t *testing.T) {
	key := Key{InterviewID: "0b6f9c1e-2f5d-4c3a-9e1b-7d2a8f4c6e10", Email: "a|b@example.com"}
	got, err := parseKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, got)
}
