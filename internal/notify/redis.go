package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/paycycle/internal/log"

	"github.com/redis/go-redis/v9"
)

// LatestTTL is how long the most recent event stays readable under the
// channel's ":latest" key.
const LatestTTL = 24 * time.Hour

type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisPublisher publishes events on a pub/sub channel and keeps the latest
// one under a key so late subscribers can catch up.
type RedisPublisher struct {
	client  redisClient
	channel string
	logger  *log.Logger
}

// NewRedisPublisher connects to addr and verifies the connection.
func NewRedisPublisher(ctx context.Context, addr, channel string, logger *log.Logger) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return newRedisPublisher(rdb, channel, logger), nil
}

func newRedisPublisher(client redisClient, channel string, logger *log.Logger) *RedisPublisher {
	if logger == nil {
		logger = log.Nop()
	}
	return &RedisPublisher{client: client, channel: channel, logger: logger.WithComponent(log.ComponentNotify)}
}

// LatestKey returns the key holding the most recent event.
func (p *RedisPublisher) LatestKey() string {
	return p.channel + ":latest"
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := msg.Encode()
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	if err := p.client.Set(ctx, p.LatestKey(), body, LatestTTL).Err(); err != nil {
		return fmt.Errorf("redis set latest: %w", err)
	}

	p.logger.DebugContext(ctx, "published event",
		log.FieldOperation, log.OpPublish,
		log.FieldEventID, msg.ID,
		log.FieldEventType, msg.Type,
		"channel", p.channel)
	return nil
}

// Close implements Publisher.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
