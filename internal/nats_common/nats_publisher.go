package nats_common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/interfaces"
	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes ledger events as JSON on core NATS subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	config NATSConfig
	logger *internal.Logger
}

// NewNATSPublisher connects to config.ServerURL.
func NewNATSPublisher(config NATSConfig) (*NATSPublisher, error) {
	logger := internal.GetLogger()
	if config.SubjectPrefix == "" {
		config.SubjectPrefix = DefaultSubjectPrefix
	}

	logger.Debug(internal.ComponentNATS, "Connection parameters: URL=%s, User=%s", config.ServerURL, config.Username)

	opts := []nats.Option{
		nats.Name(config.ClientID),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.Timeout(2 * time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error(internal.ComponentNATS, "NATS error: %v", err)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(internal.ComponentNATS, "Disconnected from NATS server: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info(internal.ComponentNATS, "Reconnected to NATS server %s", nc.ConnectedUrl())
		}),
	}
	opts = append(opts, ApplyNATSAuthOptions(config.Username, config.Password, config.Token)...)

	nc, err := nats.Connect(config.ServerURL, opts...)
	if err != nil {
		logger.Error(internal.ComponentNATS, "Connection failed: %v", err)
		return nil, fmt.Errorf("NATS connection failed: %w", err)
	}

	logger.Info(internal.ComponentNATS, "Connected to NATS server at %s", nc.ConnectedUrl())

	return &NATSPublisher{conn: nc, config: config, logger: logger}, nil
}

// Publish marshals the event to JSON and sends it on the subject for its type.
func (p *NATSPublisher) Publish(ctx context.Context, event *interfaces.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := Subject(p.config.SubjectPrefix, event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug(internal.ComponentNATS, "Published %s (%d bytes)", subject, len(data))
	return nil
}

// Close flushes pending events and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}
