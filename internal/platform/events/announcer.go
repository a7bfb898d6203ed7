package events

import (
	"context"
	"log/slog"
	"time"

	"go.permitdesk.tech/internal/common/metrics"
	"go.permitdesk.tech/internal/queue"
)

// Announcer publishes operation messages to the event stream.
//
// Publishing is fire-and-forget from the caller's point of view: broker
// failures are logged and reported as false, never returned as errors.
// The committed relational write always outranks the notification.
type Announcer interface {
	// Announce publishes an operation message and reports whether the
	// broker acknowledged durable persistence.
	Announce(ctx context.Context, operationName string) bool
}

type announcer struct {
	publisher queue.Publisher
	subject   string
}

// NewAnnouncer creates an Announcer over the given publisher
func NewAnnouncer(publisher queue.Publisher, subject string) Announcer {
	return &announcer{
		publisher: publisher,
		subject:   subject,
	}
}

func (a *announcer) Announce(ctx context.Context, operationName string) bool {
	msg := NewOperationMessage(operationName)

	data, err := msg.Encode()
	if err != nil {
		metrics.EventsPublished.WithLabelValues(operationName, "failed").Inc()
		slog.Error("Failed to serialize operation message",
			"operation", operationName,
			"messageId", msg.ID,
			"error", err)
		return false
	}

	start := time.Now()
	err = a.publisher.PublishWithDeduplication(ctx, a.subject, data, msg.ID.String())
	metrics.EventPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EventsPublished.WithLabelValues(operationName, "failed").Inc()
		slog.Error("Failed to publish operation message",
			"operation", operationName,
			"messageId", msg.ID,
			"subject", a.subject,
			"error", err)
		return false
	}

	metrics.EventsPublished.WithLabelValues(operationName, "acked").Inc()
	slog.Info("Operation message published",
		"operation", operationName,
		"messageId", msg.ID,
		"subject", a.subject)
	return true
}
