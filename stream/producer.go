package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/amqp"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/message"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"

	"github.com/octabyte/bm-talentportal/otel"
	"github.com/octabyte/bm-talentportal/queue"
)

type ProducerConfig struct {
	ProducerName string
	StreamName   string
	ContentType  string
}

type sender interface {
	Send(streamMessage message.StreamMessage) error
	Close() error
}

// Producer appends messages to a stream. It satisfies queue.Publisher so
// trackers can use either transport.
type Producer struct {
	producer    sender
	contentType string
}

var _ queue.Publisher = (*Producer)(nil)

func CreateProducer(environment *stream.Environment, cfg ProducerConfig) (*Producer, error) {
	producer, err := environment.NewProducer(cfg.StreamName,
		stream.NewProducerOptions().
			SetProducerName(cfg.ProducerName).
			SetCompression(stream.Compression{}.Gzip()),
	)
	if err != nil {
		return nil, fmt.Errorf("stream producer %s: %w", cfg.StreamName, err)
	}
	return newProducer(producer, cfg.ContentType), nil
}

func newProducer(s sender, contentType string) *Producer {
	if contentType == "" {
		contentType = "application/json"
	}
	return &Producer{producer: s, contentType: contentType}
}

// Publish sends body with a fresh message id. The trace context of ctx is
// carried in the application properties.
func (p *Producer) Publish(ctx context.Context, body []byte) error {
	if p == nil || p.producer == nil {
		return errors.New("producer is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := newMessage(ctx, body, p.contentType)
	if err := p.producer.Send(msg); err != nil {
		return fmt.Errorf("stream send: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

func newMessage(ctx context.Context, body []byte, contentType string) *amqp.AMQP10 {
	msg := amqp.NewMessage(body)
	msg.Properties = &amqp.MessageProperties{
		MessageID:   uuid.NewString(),
		ContentType: contentType,
	}

	headers := otel.InjectTraceHeaders(ctx, nil)
	if len(headers) > 0 {
		msg.ApplicationProperties = make(map[string]interface{}, len(headers))
		for k, v := range headers {
			msg.ApplicationProperties[k] = v
		}
	}
	return msg
}
