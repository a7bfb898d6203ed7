// Package queue provides abstractions for event stream publishing
package queue

import (
	"context"
	"time"
)

// Publisher publishes messages to an event stream
type Publisher interface {
	// Publish sends a message to the specified subject and waits for
	// the broker acknowledgment
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishWithDeduplication sends a message with a deduplication ID
	// so broker-side retries cannot produce duplicates
	PublishWithDeduplication(ctx context.Context, subject string, data []byte, deduplicationID string) error

	// Close closes the publisher
	Close() error
}

// StreamProvisioner creates the backing stream if it does not exist
type StreamProvisioner interface {
	// EnsureStream creates or updates the stream for the configured subjects
	EnsureStream(ctx context.Context) error
}

// Config holds event stream configuration
type Config struct {
	// Type is the stream implementation type: "embedded", "nats"
	Type string

	// DataDir is the data directory for embedded NATS
	DataDir string

	// NATS specific configuration
	NATS NATSConfig
}

// NATSConfig holds NATS-specific configuration
type NATSConfig struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222")
	URL string

	// StreamName is the JetStream stream name
	StreamName string

	// Subject is the subject operation messages are published to
	Subject string

	// ConsumerGroup is the durable consumer name reserved for downstream
	// processors; provisioned with the stream so subscribers pick up from
	// the first unprocessed message
	ConsumerGroup string

	// MaxAge is the maximum age of messages retained in the stream
	MaxAge time.Duration
}
