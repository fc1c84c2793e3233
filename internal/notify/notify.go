// Package notify publishes daemon events to external brokers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/log"
)

// Message is one event handed to a Publisher.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// Encode returns the JSON wire form of m.
func (m Message) Encode() ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal message %s: %w", m.ID, err)
	}
	return body, nil
}

// Publisher delivers messages to a broker.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Nop discards every message.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Message) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }

// Multi fans a message out to several publishers. Every publisher is tried
// and their errors are joined.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Publisher.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig connects every publisher enabled in cfg. With nothing enabled
// it returns Nop.
func FromConfig(ctx context.Context, cfg config.NotifyConfig, logger *log.Logger) (Publisher, error) {
	var pubs Multi

	if cfg.AMQPURL != "" {
		p, err := NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange, cfg.RoutingKey, logger)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}

	if cfg.RedisAddr != "" {
		p, err := NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisChannel, logger)
		if err != nil {
			_ = pubs.Close()
			return nil, err
		}
		pubs = append(pubs, p)
	}

	switch len(pubs) {
	case 0:
		return Nop{}, nil
	case 1:
		return pubs[0], nil
	}
	return pubs, nil
}
