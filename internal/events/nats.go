package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects published for other services
const (
	SubjectTransactionCompleted = "transaction.completed"
	SubjectInvoiceCreated       = "invoice.created"
)

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
}

// NATSPublisher publishes JSON encoded events to NATS.
type NATSPublisher struct {
	nc *nats.Conn
}

// ConnectNATS connects to the NATS server at url.
func ConnectNATS(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("paychat"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logrus.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logrus.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, v any) error {
	if p.nc == nil || !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.nc.Publish(subject, data)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
