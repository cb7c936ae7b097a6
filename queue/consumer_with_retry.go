package queue

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const retryCountHeader = "x-retry-count"

type Handler func(ctx context.Context, body []byte) error

type ConsumerWithRetry interface {
	// Consume runs handler for each delivery until ctx is done or the
	// delivery channel closes.
	Consume(ctx context.Context, handler Handler) error
	Close() error
}

type consumeChannel interface {
	declarer
	publishChannel
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type consumerWithRetry struct {
	ch         consumeChannel
	deliveryCh <-chan amqp.Delivery
	config     ConsumeWithRetryConfig
}

// NewConsumerWithRetry declares the retry and dead letter queues next to
// config.Queue and starts consuming it. A failed message is republished to
// the retry queue, which dead-letters it back after RetryDelay; after
// MaxRetries it goes to the dead letter queue.
func NewConsumerWithRetry(ch *amqp.Channel, config ConsumeWithRetryConfig) (ConsumerWithRetry, error) {
	return newConsumerWithRetry(ch, config)
}

func newConsumerWithRetry(ch consumeChannel, config ConsumeWithRetryConfig) (*consumerWithRetry, error) {
	if err := Declare(ch, Config{
		Name:    config.deadLetterQueue(),
		Type:    QueueTypeQuorum,
		Durable: true,
	}); err != nil {
		return nil, err
	}

	if err := Declare(ch, Config{
		Name:    config.retryQueue(),
		Type:    QueueTypeQuorum,
		Durable: true,
		Args: map[string]interface{}{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": config.Queue,
			"x-message-ttl":             config.RetryDelay.Milliseconds(),
		},
	}); err != nil {
		return nil, err
	}

	deliveryCh, err := ch.Consume(
		config.Queue,
		config.Consumer,
		false,
		config.Exclusive,
		config.NoLocal,
		config.NoWait,
		config.Args,
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", config.Queue, err)
	}

	return &consumerWithRetry{ch, deliveryCh, config}, nil
}

func (c *consumerWithRetry) Consume(ctx context.Context, handler Handler) error {
	log.Infof("Waiting for messages on %s...", c.config.Queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-c.deliveryCh:
			if !ok {
				return nil
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *consumerWithRetry) handle(ctx context.Context, msg amqp.Delivery, handler Handler) {
	msgCtx := otel.GetTextMapPropagator().Extract(ctx, headerCarrier(msg.Headers))

	if err := handler(msgCtx, msg.Body); err != nil {
		if retryCount := getRetryCount(msg.Headers); retryCount < c.config.MaxRetries {
			log.Warnf("Message %s failed (attempt %d): %v", msg.MessageId, retryCount+1, err)
			c.retryMessage(ctx, msg)
		} else {
			log.Errorf("Message %s exhausted %d retries: %v", msg.MessageId, c.config.MaxRetries, err)
			c.moveToDLQ(ctx, msg)
		}
		return
	}

	_ = msg.Ack(false)
}

func (c *consumerWithRetry) Close() error {
	return c.ch.Close()
}

func (c *consumerWithRetry) moveToDLQ(ctx context.Context, msg amqp.Delivery) {
	err := c.ch.PublishWithContext(ctx,
		"",
		c.config.deadLetterQueue(),
		false,
		false,
		amqp.Publishing{
			ContentType: msg.ContentType,
			MessageId:   msg.MessageId,
			Body:        msg.Body,
			Headers:     msg.Headers,
		},
	)
	if err != nil {
		log.Errorf("Failed to move message to DLQ: %v", err)
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

func (c *consumerWithRetry) retryMessage(ctx context.Context, msg amqp.Delivery) {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[retryCountHeader] = int32(getRetryCount(msg.Headers) + 1)

	err := c.ch.PublishWithContext(ctx,
		"",
		c.config.retryQueue(),
		false,
		false,
		amqp.Publishing{
			ContentType: msg.ContentType,
			MessageId:   msg.MessageId,
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if err != nil {
		log.Errorf("Failed to retry message: %v", err)
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

func getRetryCount(headers amqp.Table) int {
	if val, ok := headers[retryCountHeader]; ok {
		switch v := val.(type) {
		case int32:
			return int(v)
		case int64:
			return int(v)
		case int:
			return v
		default:
			log.Errorf("header %s type not supported: %T", retryCountHeader, v)
		}
	}

	return 0
}

// headerCarrier reads string trace headers from an amqp table.
type headerCarrier amqp.Table

var _ propagation.TextMapCarrier = headerCarrier(nil)

func (h headerCarrier) Get(key string) string {
	v, _ := h[key].(string)
	return v
}

func (h headerCarrier) Set(key, value string) {
	h[key] = value
}

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}
