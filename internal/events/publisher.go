package events

import (
	"context"

	"zoracoin/internal/adapters/kafka"
	"zoracoin/pkg/errors"
	"zoracoin/pkg/logger"
)

// CoinPublisher announces completed coin writes
type CoinPublisher interface {
	PublishCoinCreated(ctx context.Context, event *CoinCreatedEvent) error
	PublishCoinTraded(ctx context.Context, event *CoinTradedEvent) error
}

// Producer is the subset of the Kafka producer the publisher uses
type Producer interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

var _ Producer = (*kafka.Producer)(nil)

// Publisher publishes coin events to Kafka as JSON
type Publisher struct {
	producer Producer
	log      *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(producer Producer, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{
		producer: producer,
		log:      log,
	}
}

// PublishCoinCreated publishes a coin deployment, keyed by transaction hash
func (p *Publisher) PublishCoinCreated(ctx context.Context, event *CoinCreatedEvent) error {
	return p.publish(ctx, kafka.TopicCoinCreated, event.TxHash, event)
}

// PublishCoinTraded publishes a trade, keyed by coin address
func (p *Publisher) PublishCoinTraded(ctx context.Context, event *CoinTradedEvent) error {
	return p.publish(ctx, kafka.TopicCoinTraded, event.Coin, event)
}

func (p *Publisher) publish(ctx context.Context, topic, key string, event interface{}) error {
	if err := p.producer.Publish(ctx, topic, key, event); err != nil {
		p.log.Warnw("Failed to publish event", "topic", topic, "key", key, "error", err)
		return errors.Wrap(err, "send to kafka")
	}

	p.log.Debugw("Event published", "topic", topic, "key", key)
	return nil
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) PublishCoinCreated(context.Context, *CoinCreatedEvent) error { return nil }
func (NoopPublisher) PublishCoinTraded(context.Context, *CoinTradedEvent) error   { return nil }
