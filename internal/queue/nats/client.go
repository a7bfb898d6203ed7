package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"log/slog"

	"go.permitdesk.tech/internal/queue"
)

// Publisher publishes messages to NATS JetStream
type Publisher struct {
	js     jetstream.JetStream
	stream string
}

// NewPublisher creates a new NATS publisher
func NewPublisher(js jetstream.JetStream, streamName string) *Publisher {
	return &Publisher{
		js:     js,
		stream: streamName,
	}
}

// Publish sends a message to the specified subject and waits for the ack
func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	_, err := p.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishWithDeduplication sends a message with a deduplication ID
func (p *Publisher) PublishWithDeduplication(ctx context.Context, subject string, data []byte, deduplicationID string) error {
	// NATS JetStream uses Nats-Msg-Id for deduplication
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  make(nats.Header),
	}
	msg.Header.Set("Nats-Msg-Id", deduplicationID)

	_, err := p.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to publish message with deduplication: %w", err)
	}
	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	// Nothing to close for the publisher itself
	return nil
}

// Client wraps a NATS connection and provides publishing and stream provisioning
type Client struct {
	conn      *nats.Conn
	js        jetstream.JetStream
	publisher *Publisher
	config    *queue.NATSConfig
}

// NewClient connects to an external NATS server
func NewClient(cfg *queue.NATSConfig) (*Client, error) {
	if cfg.URL == "" {
		cfg.URL = "nats://localhost:4222"
	}

	conn, err := nats.Connect(cfg.URL,
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamName := cfg.StreamName
	if streamName == "" {
		streamName = "PERMISSIONS"
	}

	return &Client{
		conn:      conn,
		js:        js,
		publisher: NewPublisher(js, streamName),
		config:    cfg,
	}, nil
}

// Publisher returns the client's publisher
func (c *Client) Publisher() queue.Publisher {
	return c.publisher
}

// Connection returns the NATS connection
func (c *Client) Connection() *nats.Conn {
	return c.conn
}

// EnsureStream creates or updates the stream and its durable consumer
func (c *Client) EnsureStream(ctx context.Context) error {
	return ensureStream(ctx, c.js, c.config)
}

// Close closes the client
func (c *Client) Close() error {
	c.conn.Close()
	return nil
}

// streamConfig builds the stream definition, falling back to defaults for
// unset name, subject, and retention age.
func streamConfig(cfg *queue.NATSConfig) jetstream.StreamConfig {
	streamName := cfg.StreamName
	if streamName == "" {
		streamName = "PERMISSIONS"
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "permissions.operations"
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}

	return jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subject},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    maxAge,
		Replicas:  1,
		Discard:   jetstream.DiscardOld,
		MaxMsgs:   -1,
		MaxBytes:  -1,
		NoAck:     false,
		// Window for Nats-Msg-Id deduplication
		Duplicates: 2 * time.Minute,
	}
}

// ensureStream provisions the stream plus a durable consumer so downstream
// processors joining later still see every retained message.
func ensureStream(ctx context.Context, js jetstream.JetStream, cfg *queue.NATSConfig) error {
	streamCfg := streamConfig(cfg)
	streamName := streamCfg.Name
	subject := streamCfg.Subjects[0]

	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		stream, err = js.CreateStream(ctx, streamCfg)
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		slog.Info("Created JetStream stream", "stream", streamName, "subject", subject)
	} else {
		stream, err = js.UpdateStream(ctx, streamCfg)
		if err != nil {
			return fmt.Errorf("failed to update stream: %w", err)
		}
		slog.Info("Updated JetStream stream", "stream", streamName, "subject", subject)
	}

	if cfg.ConsumerGroup != "" {
		consumerCfg := jetstream.ConsumerConfig{
			Name:          cfg.ConsumerGroup,
			Durable:       cfg.ConsumerGroup,
			FilterSubject: subject,
			AckPolicy:     jetstream.AckExplicitPolicy,
			DeliverPolicy: jetstream.DeliverAllPolicy,
			ReplayPolicy:  jetstream.ReplayInstantPolicy,
		}
		if _, err := stream.CreateOrUpdateConsumer(ctx, consumerCfg); err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	return nil
}
