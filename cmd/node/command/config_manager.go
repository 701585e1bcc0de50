package command

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-frontline/internal/manager"
	"github.com/pixil98/go-frontline/internal/messaging"
)

// passwordEnvVar holds the basic-auth password the manager expects from
// server accounts. It is never configured in a file.
const passwordEnvVar = "SERVER_BASIC_AUTH_PASSWORD"

type ManagerConfig struct {
	URL            string `json:"url"`
	BrokerURL      string `json:"broker_url"`
	Host           string `json:"host"`
	ConnectTimeout string `json:"connect_timeout"`
}

func (c *ManagerConfig) validate(development bool) error {
	el := errors.NewErrorList()

	if c.URL == "" && !development {
		el.Add(fmt.Errorf("url is required outside development mode"))
	}
	if c.URL != "" && c.BrokerURL == "" && !development {
		el.Add(fmt.Errorf("broker_url is required outside development mode"))
	}
	if c.ConnectTimeout != "" {
		if _, err := time.ParseDuration(c.ConnectTimeout); err != nil {
			el.Add(fmt.Errorf("parsing connect_timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *ManagerConfig) password(development bool) (string, error) {
	pw := os.Getenv(passwordEnvVar)
	if pw == "" {
		if !development {
			return "", fmt.Errorf("%s is not set", passwordEnvVar)
		}
		pw = "dev"
	}
	return pw, nil
}

// BuildClient builds the REST client for the manager API.
func (c *ManagerConfig) BuildClient(serverID int64, development bool) (*manager.Client, error) {
	pw, err := c.password(development)
	if err != nil {
		return nil, err
	}
	return manager.NewClient(c.URL, serverID, pw), nil
}

// BuildBrokerDialer returns the func the sync client uses to open its broker
// connection. In development mode with no broker configured an in-process
// server is spun up so the event plumbing stays alive.
func (c *ManagerConfig) BuildBrokerDialer(development bool) (func(onClosed func(reason string)) (messaging.Broker, error), error) {
	if c.BrokerURL == "" {
		srv, err := messaging.NewEmbeddedServer(messaging.WithPort(-1))
		if err != nil {
			return nil, fmt.Errorf("creating embedded broker: %w", err)
		}
		return func(onClosed func(reason string)) (messaging.Broker, error) {
			if err := srv.StartBackground(); err != nil {
				return nil, err
			}
			return messaging.NewNatsBroker(srv.ClientURL(), messaging.WithClosedHandler(onClosed))
		}, nil
	}

	pw, err := c.password(development)
	if err != nil {
		return nil, err
	}

	opts := []messaging.NatsBrokerOpt{
		messaging.WithCredentials(manager.BasicAuthUsername, pw),
	}
	if c.ConnectTimeout != "" {
		d, err := time.ParseDuration(c.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing connect_timeout: %w", err)
		}
		opts = append(opts, messaging.WithConnectTimeout(d))
	}

	return func(onClosed func(reason string)) (messaging.Broker, error) {
		return messaging.NewNatsBroker(c.BrokerURL, append(opts, messaging.WithClosedHandler(onClosed))...)
	}, nil
}
