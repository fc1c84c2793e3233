package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/paycycle/internal/config"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared  []string
	published []amqp091.Publishing
	keys      []string
	failWith  error
	closed    bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp091.Table) error {
	f.declared = append(f.declared, name+"/"+kind)
	if !durable {
		return errors.New("exchange must be durable")
	}
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	if f.failWith != nil {
		return f.failWith
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeRedis struct {
	published map[string][]string
	values    map[string]string
	ttls      map[string]time.Duration
	closed    bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{published: map[string][]string{}, values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.published[channel] = append(f.published[channel], string(message.([]byte)))
	return redis.NewIntResult(1, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(context.Context, Message) error { return p.err }
func (p failingPublisher) Close() error                           { return nil }

func testMessage() Message {
	return Message{
		ID:        "evt-1",
		Type:      "cycle_updated",
		Timestamp: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		Payload:   map[string]string{"spent": "90"},
	}
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newAMQPPublisher(nil, ch, "paycycle", "cycle.events", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"paycycle/direct"}, ch.declared)

	require.NoError(t, p.Publish(context.Background(), testMessage()))
	require.Len(t, ch.published, 1)

	msg := ch.published[0]
	assert.Equal(t, "cycle.events", ch.keys[0])
	assert.Equal(t, amqp091.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "cycle_updated", msg.Type)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "evt-1", decoded["id"])

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{failWith: errors.New("channel closed")}
	p, err := newAMQPPublisher(nil, ch, "paycycle", "cycle.events", nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), testMessage())
	assert.ErrorContains(t, err, "channel closed")
}

func TestRedisPublisher_PublishAndLatest(t *testing.T) {
	rdb := newFakeRedis()
	p := newRedisPublisher(rdb, "paycycle:events", nil)

	require.NoError(t, p.Publish(context.Background(), testMessage()))
	require.Len(t, rdb.published["paycycle:events"], 1)
	assert.Equal(t, rdb.published["paycycle:events"][0], rdb.values["paycycle:events:latest"])
	assert.Equal(t, LatestTTL, rdb.ttls[p.LatestKey()])

	require.NoError(t, p.Close())
	assert.True(t, rdb.closed)
}

func TestMulti_JoinsErrorsAndKeepsGoing(t *testing.T) {
	rdb := newFakeRedis()
	boom := errors.New("boom")
	m := Multi{failingPublisher{err: boom}, newRedisPublisher(rdb, "c", nil)}

	err := m.Publish(context.Background(), testMessage())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, rdb.published["c"], 1, "later publishers still receive the message")
}

func TestFromConfig_NothingEnabled(t *testing.T) {
	p, err := FromConfig(context.Background(), config.NotifyConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.Publish(context.Background(), testMessage()))
}
