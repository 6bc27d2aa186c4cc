package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends audit events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev AuthEvent) error
}

// NopPublisher drops every event. It stands in when no broker is configured
// or reachable.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AuthEvent) error { return nil }

// AMQPPublisher publishes persistent JSON messages to a durable queue over a
// single long-lived connection.
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex
	ch *amqp.Channel
}

// DialPublisher connects to url and declares queue (idempotent).
func DialPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	p := &AMQPPublisher{conn: conn, queue: queue}
	if err := p.openChannel(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel open: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	p.ch = ch
	return nil
}

// Publish marshals ev and sends it on the default exchange with the queue
// name as routing key. A closed channel is reopened once.
func (p *AMQPPublisher) Publish(ctx context.Context, ev AuthEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		if p.conn.IsClosed() {
			return amqp.ErrClosed
		}
		if err := p.openChannel(); err != nil {
			return err
		}
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}
