package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedServer runs an in-process NATS server. Development-mode nodes with
// no reachable manager use it to keep the event plumbing alive, and tests use
// it as the broker.
type EmbeddedServer struct {
	ns *server.Server

	startupTimeout time.Duration
	host           string
	port           int
}

type EmbeddedServerOpt func(*EmbeddedServer)

// WithStartTimeout sets the startup timeout for the embedded server.
func WithStartTimeout(d time.Duration) EmbeddedServerOpt {
	return func(s *EmbeddedServer) {
		s.startupTimeout = d
	}
}

// WithHost sets the listen host for the embedded server.
func WithHost(host string) EmbeddedServerOpt {
	return func(s *EmbeddedServer) {
		s.host = host
	}
}

// WithPort sets the listen port for the embedded server. Use -1 for a random
// free port.
func WithPort(port int) EmbeddedServerOpt {
	return func(s *EmbeddedServer) {
		s.port = port
	}
}

func NewEmbeddedServer(opts ...EmbeddedServerOpt) (*EmbeddedServer, error) {
	s := &EmbeddedServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

// StartBackground starts the server and waits until it accepts connections.
// The caller shuts it down with Shutdown.
func (s *EmbeddedServer) StartBackground() error {
	s.ns.Start()

	if !s.ns.ReadyForConnections(s.startupTimeout) {
		return fmt.Errorf("embedded nats server not ready for connections")
	}

	return nil
}

// Start runs the server until ctx is done (go-service worker contract).
func (s *EmbeddedServer) Start(ctx context.Context) error {
	if err := s.StartBackground(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "embedded nats server listening", "addr", s.ns.Addr())

	<-ctx.Done()
	s.Shutdown()

	return nil
}

func (s *EmbeddedServer) Shutdown() {
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
}

// ClientURL returns the URL clients should connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.ns.ClientURL()
}
