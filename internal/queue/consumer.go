package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/accounts-service/internal/logging"
)

// AuditSink appends one human-readable line per event to a file.
type AuditSink struct {
	path string
	mu   sync.Mutex
}

func NewAuditSink(path string) *AuditSink { return &AuditSink{path: path} }

// Handle decodes a message body and appends it to the audit file.
func (s *AuditSink) Handle(body []byte) error {
	var ev AuthEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir audit dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single newline-terminated line.
func FormatLine(ev AuthEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | event_id=%s", ev.OccurredAt, ev.Type, ev.ID)
	if ev.UserID != 0 {
		fmt.Fprintf(&b, " | user_id=%d", ev.UserID)
	}
	if ev.Email != "" {
		fmt.Fprintf(&b, " | email=%q", ev.Email)
	}
	if ev.Reason != "" {
		fmt.Fprintf(&b, " | reason=%s", ev.Reason)
	}
	if ev.RemoteIP != "" {
		fmt.Fprintf(&b, " | ip=%s", ev.RemoteIP)
	}
	b.WriteByte('\n')
	return b.String()
}

// StartAuditConsumer connects to the broker, declares the durable events
// queue and feeds every delivery to sink. It reconnects with exponential
// backoff (capped at 30s) and returns only when ctx is cancelled.
func StartAuditConsumer(ctx context.Context, url string, sink *AuditSink, log logging.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn(ctx, "audit consumer: dial failed", "err", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, sink, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn(ctx, "audit consumer: consume loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, sink *AuditSink, log logging.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn(ctx, "audit consumer: set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(AuthEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, AuthEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := sink.Handle(d.Body); err != nil {
			log.Error(ctx, "audit consumer: handle message failed", "err", err, "message_id", d.MessageId)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
