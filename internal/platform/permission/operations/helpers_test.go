package operations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.permitdesk.tech/internal/common/sqlite"
	"go.permitdesk.tech/internal/config"
	"go.permitdesk.tech/internal/platform/permission"
	"go.permitdesk.tech/internal/search"
)

// fakeGateway records index traffic in place of the real search backend.
// It shares the env call log so tests can assert propagation order.
type fakeGateway struct {
	indexed []search.Document
	updated []search.Document
	log     *[]string
}

func (g *fakeGateway) IndexDocument(_ context.Context, doc search.Document) {
	g.indexed = append(g.indexed, doc)
	*g.log = append(*g.log, "index")
}

func (g *fakeGateway) UpdateDocument(_ context.Context, doc search.Document) {
	g.updated = append(g.updated, doc)
	*g.log = append(*g.log, "update")
}

func (g *fakeGateway) GetDocument(_ context.Context, id int64) (search.Document, bool) {
	for _, doc := range append(g.indexed, g.updated...) {
		if doc.ID == id {
			return doc, true
		}
	}
	return search.Document{}, false
}

func (g *fakeGateway) SearchDocuments(_ context.Context, _ string) []search.Document {
	return nil
}

func (g *fakeGateway) EnsureIndexExists(_ context.Context) error { return nil }

// fakeAnnouncer records published operation names and acks per the ack flag.
type fakeAnnouncer struct {
	operations []string
	ack        bool
	log        *[]string
}

func (a *fakeAnnouncer) Announce(_ context.Context, operationName string) bool {
	a.operations = append(a.operations, operationName)
	*a.log = append(*a.log, "announce")
	return a.ack
}

type testEnv struct {
	db        *sql.DB
	factory   permission.Factory
	gateway   *fakeGateway
	announcer *fakeAnnouncer
	log       []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	db, err := sqlite.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	env := &testEnv{db: db, factory: permission.NewFactory(db)}
	env.gateway = &fakeGateway{log: &env.log}
	env.announcer = &fakeAnnouncer{ack: true, log: &env.log}
	return env
}

// brokenRefetchFactory hands out a working unit of work first, then units
// over a closed database, so the post-commit read back fails at the store.
func (e *testEnv) brokenRefetchFactory(t *testing.T) permission.Factory {
	t.Helper()

	broken, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "broken.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	broken.Close()

	calls := 0
	return func() permission.UnitOfWork {
		calls++
		if calls == 1 {
			return permission.NewUnitOfWork(e.db)
		}
		return permission.NewUnitOfWork(broken)
	}
}

func (e *testEnv) countRows(t *testing.T) int {
	t.Helper()

	var n int
	if err := e.db.QueryRow("SELECT COUNT(*) FROM permission_requests").Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

func validCommand() RequestPermissionCommand {
	return RequestPermissionCommand{
		EmployeeForename: "Alice",
		EmployeeSurname:  "Smith",
		PermissionTypeID: 2,
		PermissionDate:   "2031-06-15",
	}
}

// fetch reads back a row through the get use case. It announces through a
// throwaway announcer so tests can assert exactly what the use case under
// test published.
func (e *testEnv) fetch(t *testing.T, id int64) permission.DTO {
	t.Helper()

	var discard []string
	handler := NewGetPermissionUseCase(e.factory, &fakeAnnouncer{ack: true, log: &discard}).Handler()
	result := handler(context.Background(), GetPermissionQuery{ID: id})
	if result.IsFailure() {
		t.Fatalf("Fetch of id %d failed: %v", id, result.Error())
	}
	return result.Value()
}
