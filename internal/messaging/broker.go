// Package messaging wraps the node's connection to the manager's message
// broker. The node holds exactly one long-lived connection: a single
// subscription on the global events subject, and fire-and-forget publishes for
// the node's own events.
package messaging

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Broker is the subscribe/publish surface components depend on, so tests can
// run against an embedded server.
type Broker interface {
	// Subscribe registers a handler for a subject and returns an unsubscribe
	// func.
	Subscribe(subject string, handler func(data []byte)) (func(), error)
	// Publish sends a message to the given subject.
	Publish(subject string, data []byte) error
	// Connected reports whether the connection is currently up.
	Connected() bool
	Close()
}

type NatsBroker struct {
	conn *nats.Conn

	url      string
	username string
	password string
	timeout  time.Duration

	onClosed func(reason string)
}

type NatsBrokerOpt func(*NatsBroker)

// WithCredentials sets the username/password used to authenticate with the
// manager's broker.
func WithCredentials(username, password string) NatsBrokerOpt {
	return func(b *NatsBroker) {
		b.username = username
		b.password = password
	}
}

// WithConnectTimeout sets the connect timeout.
func WithConnectTimeout(d time.Duration) NatsBrokerOpt {
	return func(b *NatsBroker) {
		b.timeout = d
	}
}

// WithClosedHandler sets a callback invoked when the connection is lost for
// good. The sync client uses this to apply the node's shutdown policy.
func WithClosedHandler(fn func(reason string)) NatsBrokerOpt {
	return func(b *NatsBroker) {
		b.onClosed = fn
	}
}

// NewNatsBroker connects to the manager's broker at url.
func NewNatsBroker(url string, opts ...NatsBrokerOpt) (*NatsBroker, error) {
	b := &NatsBroker{
		url:     url,
		timeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(b)
	}

	natsOpts := []nats.Option{
		nats.Timeout(b.timeout),
		// No retry anywhere in this subsystem: a lost connection is handled
		// by the node shutdown policy, not by reconnecting.
		nats.NoReconnect(),
		nats.ClosedHandler(func(c *nats.Conn) {
			reason := "connection closed"
			if err := c.LastError(); err != nil {
				reason = err.Error()
			}
			if b.onClosed != nil {
				b.onClosed(reason)
			}
		}),
	}
	if b.username != "" {
		natsOpts = append(natsOpts, nats.UserInfo(b.username, b.password))
	}

	conn, err := nats.Connect(b.url, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}
	b.conn = conn

	slog.Info("connected to manager broker", "url", b.url)

	return b, nil
}

func (b *NatsBroker) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

func (b *NatsBroker) Publish(subject string, data []byte) error {
	return b.conn.Publish(subject, data)
}

func (b *NatsBroker) Connected() bool {
	return b.conn != nil && b.conn.IsConnected()
}

func (b *NatsBroker) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}
