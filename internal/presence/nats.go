package presence

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSConfig holds connection settings for the NATS presence publisher
type NATSConfig struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns sensible defaults for NATS configuration
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Subject:       "descomp.presence",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// NATSNotifier publishes presence updates to a NATS subject, where the
// chat/announcement bot picks them up.
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATS connects to NATS and creates a presence publisher
func NewNATS(cfg NATSConfig, logger *slog.Logger) (*NATSNotifier, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", slog.String("error", errString(err)))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}

	return &NATSNotifier{
		nc:      nc,
		subject: cfg.Subject,
		logger:  logger,
	}, nil
}

// Ensure NATSNotifier implements Notifier
var _ Notifier = (*NATSNotifier)(nil)

func (n *NATSNotifier) SetPresence(_ context.Context, status string) error {
	return n.nc.Publish(n.subject, []byte(status))
}

// Close drains and closes the NATS connection
func (n *NATSNotifier) Close() {
	if err := n.nc.Drain(); err != nil {
		n.nc.Close()
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
