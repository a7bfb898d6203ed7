package common

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.permitdesk.tech/internal/common/metrics"
)

// HandlerFunc is one use case invocation: a request in, a Result out.
type HandlerFunc[Req, Res any] func(ctx context.Context, req Req) Result[Res]

// Stage is a cross-cutting step wrapped around a handler. A stage may
// short-circuit (validation) or merely observe (logging).
type Stage[Req, Res any] func(next HandlerFunc[Req, Res]) HandlerFunc[Req, Res]

// Chain composes stages around a handler. Stages run in the order given:
// Chain(h, a, b) executes a, then b, then h.
func Chain[Req, Res any](handler HandlerFunc[Req, Res], stages ...Stage[Req, Res]) HandlerFunc[Req, Res] {
	wrapped := handler
	for i := len(stages) - 1; i >= 0; i-- {
		wrapped = stages[i](wrapped)
	}
	return wrapped
}

// Rule is a single validation check. It returns a human-readable message
// and false when the request violates the rule.
type Rule[Req any] func(req Req) (string, bool)

// ValidationStage rejects malformed input before any side effect occurs.
//
// Every failing rule is collected; the rejection carries the full message
// list so a caller sees all problems in one round trip. With no rules
// registered the stage is a passthrough.
func ValidationStage[Req, Res any](rules ...Rule[Req]) Stage[Req, Res] {
	return func(next HandlerFunc[Req, Res]) HandlerFunc[Req, Res] {
		return func(ctx context.Context, req Req) Result[Res] {
			if len(rules) == 0 {
				return next(ctx, req)
			}

			var failures []string
			for _, rule := range rules {
				if msg, ok := rule(req); !ok {
					failures = append(failures, msg)
				}
			}

			if len(failures) > 0 {
				slog.Warn("Validation failed",
					"errors", strings.Join(failures, ", "))
				return Failure[Res](ValidationError(
					ErrCodeInvalidValue,
					"Validation failed",
					map[string]any{"errors": failures},
				))
			}

			return next(ctx, req)
		}
	}
}

// LoggingStage logs entry and outcome of every handler invocation.
func LoggingStage[Req, Res any](name string) Stage[Req, Res] {
	return func(next HandlerFunc[Req, Res]) HandlerFunc[Req, Res] {
		return func(ctx context.Context, req Req) Result[Res] {
			slog.Info("Handling request", "request", name)

			result := next(ctx, req)

			if result.IsFailure() {
				slog.Warn("Request failed",
					"request", name,
					"kind", result.Error().Kind.String(),
					"code", result.Error().Code)
			} else {
				slog.Info("Handled request", "request", name)
			}

			return result
		}
	}
}

// MetricsStage records handled-operation counts and durations. Rejections
// (validation, business rule, not found) are counted apart from faults.
func MetricsStage[Req, Res any](operation string) Stage[Req, Res] {
	return func(next HandlerFunc[Req, Res]) HandlerFunc[Req, Res] {
		return func(ctx context.Context, req Req) Result[Res] {
			start := time.Now()
			result := next(ctx, req)
			metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

			outcome := "success"
			if result.IsFailure() {
				switch result.Error().Kind {
				case ErrorKindValidation, ErrorKindBusinessRule, ErrorKindNotFound:
					outcome = "rejected"
				default:
					outcome = "error"
				}
			}
			metrics.OperationsHandled.WithLabelValues(operation, outcome).Inc()

			return result
		}
	}
}

// ValidationMessages extracts the aggregated message list from a
// validation rejection, or nil when the error carries none.
func ValidationMessages(err *UseCaseError) []string {
	if err == nil || err.Details == nil {
		return nil
	}
	switch v := err.Details["errors"].(type) {
	case []string:
		return v
	case []any:
		msgs := make([]string, 0, len(v))
		for _, m := range v {
			if s, ok := m.(string); ok {
				msgs = append(msgs, s)
			}
		}
		return msgs
	}
	return nil
}
