package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"go.permitdesk.tech/internal/common/metrics"
	"go.permitdesk.tech/internal/config"
)

// keyPrefix namespaces document hashes in Redis.
const keyPrefix = "permission:"

// RedisGateway implements Gateway on a RediSearch-enabled Redis.
//
// All calls run through a circuit breaker so a dead index fails fast
// instead of eating the per-call timeout on every request. Breaker
// rejections follow the same policy as transport failures: logged,
// swallowed.
type RedisGateway struct {
	client    *redis.Client
	indexName string
	breaker   *gobreaker.CircuitBreaker
}

// NewRedisGateway connects to the search index backend.
func NewRedisGateway(cfg config.SearchConfig) (*RedisGateway, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid search URL: %w", err)
	}
	if cfg.Username != "" {
		opts.Username = cfg.Username
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping search index: %w", err)
	}

	slog.Info("Connected to search index", "index", cfg.IndexName)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "search-index",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			var state float64
			switch to {
			case gobreaker.StateClosed:
				state = metrics.CircuitBreakerClosed
			case gobreaker.StateOpen:
				state = metrics.CircuitBreakerOpen
				metrics.SearchCircuitBreakerTrips.Inc()
			case gobreaker.StateHalfOpen:
				state = metrics.CircuitBreakerHalfOpen
			}
			metrics.SearchCircuitBreakerState.Set(state)

			slog.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &RedisGateway{
		client:    client,
		indexName: cfg.IndexName,
		breaker:   breaker,
	}, nil
}

// Ping checks index connectivity, for readiness probes.
func (g *RedisGateway) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

// Close releases the connection.
func (g *RedisGateway) Close() error {
	return g.client.Close()
}

// EnsureIndexExists creates the index with its field mapping if absent.
func (g *RedisGateway) EnsureIndexExists(ctx context.Context) error {
	if _, err := g.client.FTInfo(ctx, g.indexName).Result(); err == nil {
		slog.Info("Search index exists", "index", g.indexName)
		return nil
	}

	err := g.client.FTCreate(ctx, g.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{keyPrefix},
		},
		&redis.FieldSchema{FieldName: "id", FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{FieldName: "employeeForename", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "employeeSurname", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "permissionTypeId", FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{FieldName: "permissionDate", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "typeId", FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{FieldName: "typeDescription", FieldType: redis.SearchFieldTypeText},
	).Err()
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	slog.Info("Created search index", "index", g.indexName)
	return nil
}

// IndexDocument upserts the document. Failures are logged and swallowed.
func (g *RedisGateway) IndexDocument(ctx context.Context, doc Document) {
	g.upsert(ctx, doc, "index")
}

// UpdateDocument upserts the document. Failures are logged and swallowed.
func (g *RedisGateway) UpdateDocument(ctx context.Context, doc Document) {
	g.upsert(ctx, doc, "update")
}

func (g *RedisGateway) upsert(ctx context.Context, doc Document, operation string) {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.client.HSet(ctx, g.key(doc.ID), doc.fields()).Err()
	})
	if err != nil {
		metrics.IndexOperations.WithLabelValues(operation, "failure").Inc()
		slog.Error("Failed to propagate document to search index",
			"operation", operation,
			"permissionId", doc.ID,
			"error", err)
		return
	}

	metrics.IndexOperations.WithLabelValues(operation, "success").Inc()
	slog.Info("Document propagated to search index",
		"operation", operation,
		"permissionId", doc.ID)
}

// GetDocument fetches a document by id. Misses and index outages are
// indistinguishable here; both return false.
func (g *RedisGateway) GetDocument(ctx context.Context, id int64) (Document, bool) {
	result, err := g.breaker.Execute(func() (any, error) {
		fields, err := g.client.HGetAll(ctx, g.key(id)).Result()
		if err != nil {
			return nil, err
		}
		return fields, nil
	})
	if err != nil {
		slog.Error("Failed to fetch document from search index",
			"permissionId", id,
			"error", err)
		return Document{}, false
	}

	fields := result.(map[string]string)
	if len(fields) == 0 {
		return Document{}, false
	}

	doc, err := documentFromFields(fields)
	if err != nil {
		slog.Error("Malformed document in search index",
			"permissionId", id,
			"error", err)
		return Document{}, false
	}

	return doc, true
}

// SearchDocuments runs a full-text match over the text-bearing fields.
// Returns an empty slice on index unavailability.
func (g *RedisGateway) SearchDocuments(ctx context.Context, term string) []Document {
	query := fmt.Sprintf("@employeeForename|employeeSurname|typeDescription:(%s)", escapeQuery(term))

	result, err := g.breaker.Execute(func() (any, error) {
		res, err := g.client.FTSearchWithArgs(ctx, g.indexName, query,
			&redis.FTSearchOptions{LimitOffset: 0, Limit: 100}).Result()
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		slog.Error("Search index query failed",
			"term", term,
			"error", err)
		return []Document{}
	}

	res := result.(redis.FTSearchResult)
	docs := make([]Document, 0, len(res.Docs))
	for _, d := range res.Docs {
		doc, err := documentFromFields(d.Fields)
		if err != nil {
			slog.Warn("Skipping malformed search hit", "key", d.ID, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	return docs
}

func (g *RedisGateway) key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// escapeQuery neutralizes RediSearch operators in user-supplied terms.
func escapeQuery(term string) string {
	escaped := make([]rune, 0, len(term))
	for _, r := range term {
		switch r {
		case '@', '(', ')', '{', '}', '[', ']', '"', '\'', ':', ';', '!', '*', '~', '|', '-', '%', '^', '&', '<', '>', '=':
			escaped = append(escaped, '\\', r)
		default:
			escaped = append(escaped, r)
		}
	}
	return string(escaped)
}

var _ Gateway = (*RedisGateway)(nil)
