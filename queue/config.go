package queue

import "time"

type ConnectionConfig struct {
	// URI of the broker, credentials included.
	URI string
	// Queue is declared on connect.
	Queue *Config
}

type Config struct {
	Name       string
	Type       QueueType
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	// Args are passed to QueueDeclare (x-message-ttl, x-max-length, ...).
	// Type, when set, is added as x-queue-type.
	Args map[string]interface{}
}

type PublishConfig struct {
	Exchange   string
	RoutingKey string
	// ContentType defaults to application/octet-stream when empty.
	ContentType string
	// DeliveryMode is amqp.Transient (1) or amqp.Persistent (2).
	DeliveryMode uint8
}

type ConsumeWithRetryConfig struct {
	Queue     string
	Consumer  string
	Exclusive bool
	NoLocal   bool
	NoWait    bool
	// MaxRetries is how many times a failed message goes through the retry
	// queue before it is moved to the dead letter queue.
	MaxRetries int
	// RetryDelay is the TTL of the retry queue.
	RetryDelay time.Duration
	Args       map[string]interface{}
}

func (c ConsumeWithRetryConfig) retryQueue() string {
	return c.Queue + "-retry"
}

func (c ConsumeWithRetryConfig) deadLetterQueue() string {
	return c.Queue + "-dlq"
}

// See https://www.rabbitmq.com/tutorials/amqp-concepts-tutorial.html
