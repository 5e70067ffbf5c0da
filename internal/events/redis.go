package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const recentEventsKept = 100

// RedisPublisher PUBLISHes events on a channel and keeps the latest ones in a
// capped list so late subscribers can catch up.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(url, channel string) (*RedisPublisher, error) {
	if channel == "" {
		return nil, errors.New("redis publisher: empty channel")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: %w", err)
	}
	return &RedisPublisher{client: redis.NewClient(opts), channel: channel}, nil
}

func (p *RedisPublisher) recentKey() string {
	return p.channel + ":recent"
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, p.channel, data)
		pipe.LPush(ctx, p.recentKey(), data)
		pipe.LTrim(ctx, p.recentKey(), 0, recentEventsKept-1)
		return nil
	})
	return err
}

// Recent returns up to limit events, newest first.
func (p *RedisPublisher) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > recentEventsKept {
		limit = recentEventsKept
	}
	raw, err := p.client.LRange(ctx, p.recentKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(raw))
	for _, item := range raw {
		var ev Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
