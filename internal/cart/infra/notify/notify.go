// Package notify publishes cart refresh signals so cached storefront views
// can be invalidated after a mutation.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dwikikusuma/flowmazon/internal/cart/domain"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) CartChanged(ctx context.Context, evt domain.CartChanged) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal cart changed: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// NewKafkaWriter builds a writer that hashes on the message key, keeping all
// signals for one cart on one partition and therefore in order.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (p *KafkaPublisher) CartChanged(ctx context.Context, evt domain.CartChanged) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal cart changed: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.CartID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(evt.Kind)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write cart changed: %w", err)
	}
	return nil
}

// Signal is any single destination; Multi fans out to several.
type Signal interface {
	CartChanged(ctx context.Context, evt domain.CartChanged) error
}

type Multi []Signal

func (m Multi) CartChanged(ctx context.Context, evt domain.CartChanged) error {
	var errs []error
	for _, s := range m {
		if err := s.CartChanged(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
