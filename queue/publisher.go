package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/octabyte/bm-talentportal/otel"
)

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type publisher struct {
	ch     publishChannel
	config PublishConfig
}

func NewPublisher(ch *amqp.Channel, config PublishConfig) Publisher {
	return newPublisher(ch, config)
}

func newPublisher(ch publishChannel, config PublishConfig) *publisher {
	if config.ContentType == "" {
		config.ContentType = "application/octet-stream"
	}
	return &publisher{ch, config}
}

// Publish sends body to the configured exchange and routing key. The trace
// context of ctx travels in the message headers.
func (p *publisher) Publish(ctx context.Context, body []byte) error {
	headers := amqp.Table{}
	for k, v := range otel.InjectTraceHeaders(ctx, nil) {
		headers[k] = v
	}

	message := amqp.Publishing{
		ContentType:  p.config.ContentType,
		DeliveryMode: p.config.DeliveryMode,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Headers:      headers,
		Body:         body,
	}

	return p.ch.PublishWithContext(ctx, p.config.Exchange, p.config.RoutingKey, false, false, message)
}

func (p *publisher) Close() error {
	return p.ch.Close()
}
