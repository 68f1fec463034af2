package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultChannel = "interview_session_events"

// RedisPublisher fans events out to every instance through Redis pub/sub.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
}

func NewRedisPublisher(rdb redis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

// RedisSubscriber relays events from the channel into a local Bus.
type RedisSubscriber struct {
	rdb     redis.UniversalClient
	channel string
	bus     *Bus
	logger  *zap.Logger
}

func NewRedisSubscriber(rdb redis.UniversalClient, channel string, bus *Bus, logger *zap.Logger) *RedisSubscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSubscriber{rdb: rdb, channel: channel, bus: bus, logger: logger}
}

// Run blocks until ctx is cancelled or the subscription closes.
func (s *RedisSubscriber) Run(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, s.channel)
	defer sub.Close()
	ch := sub.Channel()

	s.logger.Info("subscribed to session events", zap.String("channel", s.channel))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg.Payload)
		}
	}
}

func (s *RedisSubscriber) handle(ctx context.Context, payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		s.logger.Warn("dropping malformed session event", zap.Error(err))
		return
	}
	s.bus.Dispatch(ctx, ev)
}
