package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewConnection dials the broker, opens a channel and declares the
// configured queue.
func NewConnection(config ConnectionConfig) (*Connection, error) {
	conn, err := amqp.Dial(config.URI)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if config.Queue != nil {
		if err := Declare(ch, *config.Queue); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	return &Connection{conn, ch}, nil
}

// Channel opens an additional channel, one per publisher or consumer.
func (c *Connection) Channel() (*amqp.Channel, error) {
	return c.Conn.Channel()
}

func (c *Connection) Close() error {
	if c.Ch != nil && !c.Ch.IsClosed() {
		_ = c.Ch.Close()
	}
	return c.Conn.Close()
}

type declarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

func Declare(ch declarer, cfg Config) error {
	args := amqp.Table{}
	for k, v := range cfg.Args {
		args[k] = v
	}
	if cfg.Type != "" {
		args["x-queue-type"] = string(cfg.Type)
	}

	if _, err := ch.QueueDeclare(cfg.Name, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.Name, err)
	}
	return nil
}
