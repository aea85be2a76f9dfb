package rabbitmq

import (
	"context"
	"fmt"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends messages to durable queues on the default exchange.
// The topic passed to SendMessage is used as the queue name.
type Publisher struct {
	conn     io.Closer
	ch       Channel
	declared map[string]bool
	logger   *zap.Logger
}

func Dial(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return NewPublisher(conn, ch, logger), nil
}

func NewPublisher(conn io.Closer, ch Channel, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{conn: conn, ch: ch, declared: make(map[string]bool), logger: logger}
}

// DeclareQueue makes sure the durable queue exists.
func (p *Publisher) DeclareQueue(name string) error {
	if p.declared[name] {
		return nil
	}
	if _, err := p.ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	p.declared[name] = true
	return nil
}

// SendMessage is not safe for concurrent use with DeclareQueue for new
// queues; declare queues before sharing the publisher.
func (p *Publisher) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	if !p.declared[topic] {
		return fmt.Errorf("queue %s is not declared", topic)
	}
	err := p.ch.PublishWithContext(ctx, "", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      amqp.Table{"key": string(key)},
		Body:         value,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.logger.Debug("rabbitmq message published", zap.String("queue", topic))
	return nil
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return fmt.Errorf("close channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}
