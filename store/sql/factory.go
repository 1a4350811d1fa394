package sqlstore

import (
	"fmt"
	"strings"
	"sync"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-resources/core"
	"github.com/uptrace/bun"
)

// RepositoryFactory hands out one DocumentStore per collection over a shared bun DB.
type RepositoryFactory struct {
	db   *bun.DB
	opts []Option

	mu     sync.Mutex
	stores map[string]*DocumentStore
}

func NewRepositoryFactory(opts ...Option) *RepositoryFactory {
	return &RepositoryFactory{
		opts:   opts,
		stores: map[string]*DocumentStore{},
	}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, opts ...Option) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if err := factory.Bind(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, opts ...Option) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if err := factory.Bind(db); err != nil {
		return nil, err
	}
	return factory, nil
}

// Bind resolves the bun DB from a persistence client, a *bun.DB, or anything exposing DB().
func (f *RepositoryFactory) Bind(persistenceClient any) error {
	if f == nil {
		return fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db != nil {
		return nil
	}
	db, err := resolveBunDB(persistenceClient)
	if err != nil {
		return err
	}
	f.db = db
	return nil
}

// Store returns the document store for collection, building it on first use.
func (f *RepositoryFactory) Store(collection string, opts ...Option) (*DocumentStore, error) {
	if f == nil || f.db == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is not bound to a database")
	}
	key := strings.TrimSpace(collection)
	f.mu.Lock()
	defer f.mu.Unlock()
	if store, ok := f.stores[key]; ok && len(opts) == 0 {
		return store, nil
	}
	store, err := NewDocumentStore(f.db, key, append(append([]Option(nil), f.opts...), opts...)...)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		f.stores[key] = store
	}
	return store, nil
}

// ResourceStore is Store narrowed to the core contract.
func (f *RepositoryFactory) ResourceStore(collection string, opts ...Option) (core.ResourceStore, error) {
	store, err := f.Store(collection, opts...)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
