package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-resources/core"
	resourcemigrations "github.com/goliatone/go-resources/migrations"
	sqlstore "github.com/goliatone/go-resources/store/sql"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "go-resources-tests"
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	var tableName string
	if err := client.DB().NewRaw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		"resource_documents",
	).Scan(context.Background(), &tableName); err != nil {
		t.Fatalf("query sqlite master: %v", err)
	}
	if tableName != "resource_documents" {
		t.Fatalf("expected resource_documents table, got %q", tableName)
	}
}

func TestDocumentStore_InsertFindAndUniqueness(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t)

	created, err := store.Insert(ctx, core.Record{"handle": "ada", "name": "Ada", "age": 36})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, ok := created["_id"].(uuid.UUID)
	if !ok || id == uuid.Nil {
		t.Fatalf("expected generated uuid, got %v", created["_id"])
	}
	if created[core.VersionField] != 0 {
		t.Fatalf("expected revision 0, got %v", created[core.VersionField])
	}

	if _, err := store.Insert(ctx, core.Record{"handle": "ada"}); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate handle, got %v", err)
	}
	if _, err := store.Insert(ctx, core.Record{"_id": id.String(), "handle": "other"}); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate identity, got %v", err)
	}

	byID, err := store.FindOne(ctx, core.Criteria{"_id": id}, core.NewProjection(core.VersionField))
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID == nil || byID["name"] != "Ada" {
		t.Fatalf("expected record by id, got %v", byID)
	}
	if _, ok := byID[core.VersionField]; ok {
		t.Fatalf("expected projection to strip version")
	}

	byAge, err := store.FindOne(ctx, core.Criteria{"age": "36"}, nil)
	if err != nil {
		t.Fatalf("find by body field: %v", err)
	}
	if byAge == nil || byAge["_id"] != id {
		t.Fatalf("expected match on json body field, got %v", byAge)
	}

	missing, err := store.FindOne(ctx, core.Criteria{"handle": "nobody"}, nil)
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing record, got %v, %v", missing, err)
	}
}

func TestDocumentStore_FindSortPageAndCount(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t)
	for i, role := range []string{"admin", "user", "admin", "admin", "admin"} {
		if _, err := store.Insert(ctx, core.Record{
			"handle": fmt.Sprintf("u%d", i),
			"role":   role,
			"rank":   i,
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	count, err := store.Count(ctx, core.Criteria{"role": "admin"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 admins, got %d", count)
	}

	records, err := store.Find(ctx, core.Criteria{"role": "admin"}, nil, core.FindOptions{
		Skip:  1,
		Limit: 2,
		Sort:  []core.SortField{{Field: "rank", Order: -1}},
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["handle"] != "u3" || records[1]["handle"] != "u2" {
		t.Fatalf("unexpected page order %v, %v", records[0]["handle"], records[1]["handle"])
	}

	other := newStoreForCollection(t, store, "teams")
	teamCount, err := other.Count(ctx, core.Criteria{})
	if err != nil {
		t.Fatalf("count teams: %v", err)
	}
	if teamCount != 0 {
		t.Fatalf("expected collections to be isolated, got %d", teamCount)
	}
}

func TestDocumentStore_FindOneAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t)
	created, _ := store.Insert(ctx, core.Record{"handle": "ada", "name": "Ada"})
	if _, err := store.Insert(ctx, core.Record{"handle": "grace"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated, err := store.FindOneAndUpdate(ctx, core.Criteria{"handle": "ada"}, core.Record{
		"name":            "Ada Lovelace",
		"handle":          "countess",
		core.VersionField: 42,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated["name"] != "Ada Lovelace" || updated["handle"] != "countess" {
		t.Fatalf("unexpected updated record %v", updated)
	}
	if updated[core.VersionField] != 1 {
		t.Fatalf("expected revision 1, got %v", updated[core.VersionField])
	}
	if updated["_id"] != created["_id"] {
		t.Fatalf("expected identity to be preserved")
	}

	reloaded, err := store.FindOne(ctx, core.Criteria{"handle": "countess"}, nil)
	if err != nil || reloaded == nil {
		t.Fatalf("expected record under new handle, got %v, %v", reloaded, err)
	}

	if _, err := store.FindOneAndUpdate(ctx, core.Criteria{"handle": "countess"}, core.Record{"handle": "grace"}); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate on handle collision, got %v", err)
	}

	missing, err := store.FindOneAndUpdate(ctx, core.Criteria{"_id": uuid.New()}, core.Record{"name": "x"})
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing record, got %v, %v", missing, err)
	}
}

func TestDocumentStore_FindOneAndRemove(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t)
	created, _ := store.Insert(ctx, core.Record{"handle": "ada"})

	removed, err := store.FindOneAndRemove(ctx, core.Criteria{"_id": created["_id"]})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed == nil || removed["handle"] != "ada" {
		t.Fatalf("expected removed record, got %v", removed)
	}
	again, err := store.FindOneAndRemove(ctx, core.Criteria{"_id": created["_id"]})
	if err != nil || again != nil {
		t.Fatalf("expected nil, nil on second remove, got %v, %v", again, err)
	}
}

func TestDocumentStore_ServesControllerEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newUserStore(t)
	controller, err := core.NewController(core.Config{ResourceName: "user"}, store)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	create := core.NewExchange(core.Request{Body: core.Record{"handle": "ada", "password": "secret"}})
	if err := controller.Create(ctx, create); err != nil {
		t.Fatalf("create: %v", err)
	}
	record := create.Response.Body.(core.Record)
	if _, ok := record["password"]; ok {
		t.Fatalf("expected password to be projected out")
	}

	get := core.NewExchange(core.Request{Params: map[string]string{"id": "ada"}})
	if err := controller.Get(ctx, get); err != nil {
		t.Fatalf("get by handle: %v", err)
	}

	del := core.NewExchange(core.Request{Params: map[string]string{"id": create.Param("id")}})
	if err := controller.Delete(ctx, del); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = controller.Get(ctx, core.NewExchange(core.Request{Params: map[string]string{"id": "ada"}}))
	if mapped := controller.MapError(err); mapped == nil || mapped.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func newUserStore(t *testing.T) *sqlstore.DocumentStore {
	t.Helper()
	client, cleanup := newSQLiteClient(t)
	t.Cleanup(cleanup)

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store, err := factory.Store("users")
	if err != nil {
		t.Fatalf("users store: %v", err)
	}
	return store
}

func newStoreForCollection(t *testing.T, base *sqlstore.DocumentStore, collection string) *sqlstore.DocumentStore {
	t.Helper()
	factory, err := sqlstore.NewRepositoryFactoryFromDB(base.DB())
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store, err := factory.Store(collection)
	if err != nil {
		t.Fatalf("%s store: %v", collection, err)
	}
	return store
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:resources-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testPersistenceConfig{
		driver: "sqlite3",
		server: dsn,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = resourcemigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != resourcemigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, resourcemigrations.WithDialects(resourcemigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}
