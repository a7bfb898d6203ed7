package lifecycle

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.permitdesk.tech/internal/common/sqlite"
	"go.permitdesk.tech/internal/config"
	"go.permitdesk.tech/internal/queue"
	natsqueue "go.permitdesk.tech/internal/queue/nats"
	"go.permitdesk.tech/internal/search"
)

// App holds initialized infrastructure that is guaranteed to be connected.
// If you have an *App, you know the database is open, migrated, and seeded.
//
// This is NOT a god object - it just holds the "dangerous" infrastructure
// that requires connection/retry logic. Application logic should NOT go here.
type App struct {
	Config *config.Config

	// Relational store
	DB *sql.DB

	// Search index, nil unless requested
	Search *search.RedisGateway

	// Event stream, nil unless requested
	Publisher   queue.Publisher
	Provisioner queue.StreamProvisioner
	natsConn    interface{ IsConnected() bool }

	// Internal cleanup - call AddCleanup to register cleanup functions
	cleanupFuncs []func() error
}

// AppOptions configures which infrastructure to initialize.
type AppOptions struct {
	// NeedsDatabase indicates the SQLite store is required
	NeedsDatabase bool

	// NeedsSearch indicates the search index connection is required
	NeedsSearch bool

	// NeedsQueue indicates the event stream connection is required
	NeedsQueue bool
}

// Initialize creates an App with connected infrastructure.
// Returns an error if any required connection fails.
//
// Usage:
//
//	app, cleanup, err := lifecycle.Initialize(ctx, lifecycle.AppOptions{
//	    NeedsDatabase: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
func Initialize(ctx context.Context, opts AppOptions) (*App, func(), error) {
	app := &App{}

	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	if opts.NeedsDatabase {
		if err := app.initDatabase(ctx); err != nil {
			app.Cleanup()
			return nil, nil, err
		}
	}

	if opts.NeedsSearch {
		if err := app.initSearch(ctx); err != nil {
			app.Cleanup()
			return nil, nil, err
		}
	}

	if opts.NeedsQueue {
		if err := app.initQueue(ctx); err != nil {
			app.Cleanup()
			return nil, nil, err
		}
	}

	cleanup := func() {
		app.Cleanup()
	}

	return app, cleanup, nil
}

// AddCleanup registers a cleanup function to be called on shutdown.
// Functions are called in reverse order of registration.
func (app *App) AddCleanup(fn func() error) {
	app.cleanupFuncs = append(app.cleanupFuncs, fn)
}

// NATSConnected reports broker connectivity, for readiness probes.
// Always false before initQueue runs.
func (app *App) NATSConnected() bool {
	return app.natsConn != nil && app.natsConn.IsConnected()
}

// initDatabase opens the SQLite store, runs migrations, and seeds it.
func (app *App) initDatabase(ctx context.Context) error {
	cfg := app.Config

	slog.Info("Opening database", "path", cfg.Database.Path)

	db, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	app.DB = db
	app.AddCleanup(func() error {
		slog.Info("Closing database")
		return db.Close()
	})

	slog.Info("Database ready", "path", cfg.Database.Path)
	return nil
}

// initSearch connects to the search index.
func (app *App) initSearch(ctx context.Context) error {
	gateway, err := search.NewRedisGateway(app.Config.Search)
	if err != nil {
		return fmt.Errorf("failed to connect to search index: %w", err)
	}

	app.Search = gateway
	app.AddCleanup(func() error {
		slog.Info("Closing search index connection")
		return gateway.Close()
	})

	return nil
}

// initQueue starts or connects the event stream per the configured type.
func (app *App) initQueue(ctx context.Context) error {
	cfg := app.Config
	factory := queue.NewFactory(&queue.Config{
		Type:    cfg.Queue.Type,
		DataDir: cfg.Queue.NATS.DataDir,
		NATS: queue.NATSConfig{
			URL:           cfg.Queue.NATS.URL,
			StreamName:    cfg.Queue.NATS.StreamName,
			Subject:       cfg.Queue.NATS.Subject,
			ConsumerGroup: cfg.Queue.NATS.ConsumerGroup,
			MaxAge:        cfg.Queue.NATS.MaxAge,
		},
	})

	if factory.IsEmbedded() {
		embedded, err := natsqueue.NewEmbeddedServer(&natsqueue.EmbeddedConfig{
			DataDir: factory.Config().DataDir,
			Host:    "127.0.0.1",
			Port:    4222,
			NATS:    factory.Config().NATS,
		})
		if err != nil {
			return fmt.Errorf("failed to start embedded NATS: %w", err)
		}

		app.Publisher = embedded.Publisher()
		app.Provisioner = embedded
		app.natsConn = embedded.Connection()
		app.AddCleanup(embedded.Close)
		return nil
	}

	client, err := natsqueue.NewClient(&factory.Config().NATS)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	app.Publisher = client.Publisher()
	app.Provisioner = client
	app.natsConn = client.Connection()
	app.AddCleanup(client.Close)
	return nil
}

// Cleanup runs all cleanup functions in reverse order.
func (app *App) Cleanup() {
	for i := len(app.cleanupFuncs) - 1; i >= 0; i-- {
		if err := app.cleanupFuncs[i](); err != nil {
			slog.Error("Cleanup error", "error", err)
		}
	}
}
