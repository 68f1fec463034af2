package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultDeadlineKey = "interview_session_deadlines"

// Due is a session whose deadline has passed.
type Due struct {
	Key      Key
	Deadline time.Time
}

// DeadlineIndex remembers session deadlines outside the process so overdue
// sessions can be finalized after a restart.
type DeadlineIndex interface {
	Track(ctx context.Context, key Key, deadline time.Time) error
	Forget(ctx context.Context, key Key) error
	Due(ctx context.Context, now time.Time) ([]Due, error)
}

// RedisIndex keeps deadlines in a sorted set scored by unix milliseconds.
type RedisIndex struct {
	rdb redis.UniversalClient
	key string
}

func NewRedisIndex(rdb redis.UniversalClient, key string) *RedisIndex {
	if key == "" {
		key = DefaultDeadlineKey
	}
	return &RedisIndex{rdb: rdb, key: key}
}

func (r *RedisIndex) Track(ctx context.Context, key Key, deadline time.Time) error {
	return r.rdb.ZAdd(ctx, r.key, redis.Z{
		Score:  float64(deadline.UnixMilli()),
		Member: key.String(),
	}).Err()
}

func (r *RedisIndex) Forget(ctx context.Context, key Key) error {
	return r.rdb.ZRem(ctx, r.key, key.String()).Err()
}

func (r *RedisIndex) Due(ctx context.Context, now time.Time) ([]Due, error) {
	res, err := r.rdb.ZRangeByScoreWithScores(ctx, r.key, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Due, 0, len(res))
	for _, z := range res {
		member, _ := z.Member.(string)
		key, err := parseKey(member)
		if err != nil {
			return nil, err
		}
		out = append(out, Due{Key: key, Deadline: time.UnixMilli(int64(z.Score)).UTC()})
	}
	return out, nil
}

// parseKey splits on the first '|'. Interview ids are uuids and never hold
// one; an email local part may, and stays intact after the cut.
func parseKey(member string) (Key, error) {
	id, email, ok := strings.Cut(member, "|")
	if !ok || id == "" || email == "" {
		return Key{}, fmt.Errorf("scheduler: malformed deadline member %q", member)
	}
	return Key{InterviewID: id, Email: email}, nil
}
