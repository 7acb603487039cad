package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"docdash/internal/resilience"
)

// NATSPublisher publishes events on a NATS subject.
type NATSPublisher struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to url. The executor is optional; without one each publish is attempted once.
func NewNATSPublisher(url, subject string, executor *resilience.Executor, log *slog.Logger) (*NATSPublisher, error) {
	if subject == "" {
		return nil, errors.New("nats subject is required")
	}
	if log == nil {
		log = slog.Default()
	}
	conn, err := nats.Connect(
		url,
		nats.Name("docdash"),
		nats.Timeout(2*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(60),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn, subject: subject, executor: executor}, nil
}

// PublishDocumentViewed encodes evt as JSON and publishes it.
func (p *NATSPublisher) PublishDocumentViewed(ctx context.Context, evt DocumentViewed) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	call := func(context.Context) error {
		if err := p.conn.Publish(p.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}
	if p.executor == nil {
		return call(ctx)
	}
	return p.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

func classifyNATSError(err error) resilience.Classification {
	switch {
	case errors.Is(err, nats.ErrConnectionClosed), errors.Is(err, nats.ErrBadSubject), errors.Is(err, nats.ErrMaxPayload):
		return resilience.Classification{Retryable: false, RecordFailure: true}
	default:
		return resilience.RetryAll(err)
	}
}
