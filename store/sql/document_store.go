package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-resources/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// DocumentStore keeps every record of one collection in resource_documents.
type DocumentStore struct {
	db                *bun.DB
	repo              repository.Repository[*documentRecord]
	dialect           dialect.Name
	collection        string
	identityField     string
	alternateKeyField string
	now               func() time.Time
}

type Option func(*DocumentStore)

func WithIdentityField(field string) Option {
	return func(s *DocumentStore) {
		if field = strings.TrimSpace(field); field != "" {
			s.identityField = field
		}
	}
}

func WithAlternateKeyField(field string) Option {
	return func(s *DocumentStore) {
		if field = strings.TrimSpace(field); field != "" {
			s.alternateKeyField = field
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *DocumentStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewDocumentStore(db *bun.DB, collection string, opts ...Option) (*DocumentStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, fmt.Errorf("sqlstore: collection is required")
	}
	repo := repository.NewRepository[*documentRecord](db, documentHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid document repository wiring: %w", err)
		}
	}
	store := &DocumentStore{
		db:                db,
		repo:              repo,
		dialect:           db.Dialect().Name(),
		collection:        collection,
		identityField:     core.DefaultIdentityField,
		alternateKeyField: core.DefaultAlternateKeyField,
		now:               func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

func (s *DocumentStore) DB() *bun.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *DocumentStore) Collection() string {
	if s == nil {
		return ""
	}
	return s.collection
}

func (s *DocumentStore) Insert(ctx context.Context, record core.Record) (core.Record, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: document store is not configured")
	}
	id := uuid.New()
	if raw, ok := record[s.identityField]; ok && raw != nil {
		parsed, err := uuid.Parse(strings.TrimSpace(fmt.Sprint(raw)))
		if err != nil {
			return nil, fmt.Errorf("sqlstore: invalid %s: %w", s.identityField, err)
		}
		id = parsed
	}

	now := s.now()
	doc := &documentRecord{
		ID:         id.String(),
		Collection: s.collection,
		Version:    0,
		Body:       s.body(record),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	doc.Handle = s.handle(doc.Body)

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return s.toRecord(created), nil
}

func (s *DocumentStore) FindOne(ctx context.Context, criteria core.Criteria, projection core.Projection) (core.Record, error) {
	records, err := s.Find(ctx, criteria, projection, core.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (s *DocumentStore) Find(ctx context.Context, criteria core.Criteria, projection core.Projection, opts core.FindOptions) ([]core.Record, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: document store is not configured")
	}
	selectors := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return s.applySort(s.applyCriteria(q, criteria), opts.Sort)
		}),
	}
	if opts.Limit > 0 {
		selectors = append(selectors, repository.SelectPaginate(opts.Limit, opts.Skip))
	} else if opts.Skip > 0 {
		selectors = append(selectors, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Offset(opts.Skip)
		}))
	}

	docs, _, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, err
	}
	out := make([]core.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, projection.Apply(s.toRecord(doc)))
	}
	return out, nil
}

func (s *DocumentStore) Count(ctx context.Context, criteria core.Criteria) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: document store is not configured")
	}
	q := s.db.NewSelect().Model((*documentRecord)(nil))
	return s.applyCriteria(q, criteria).Count(ctx)
}

// FindOneAndUpdate merges patch into the first match inside one transaction and
// returns the stored result.
func (s *DocumentStore) FindOneAndUpdate(ctx context.Context, criteria core.Criteria, patch core.Record) (core.Record, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: document store is not configured")
	}
	var updated *documentRecord
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		doc, err := s.selectOne(ctx, tx, criteria)
		if err != nil || doc == nil {
			return err
		}

		if doc.Body == nil {
			doc.Body = map[string]any{}
		}
		for key, value := range s.body(patch) {
			doc.Body[key] = value
		}
		doc.Handle = s.handle(doc.Body)
		doc.Version++
		doc.UpdatedAt = s.now()

		if _, err := tx.NewUpdate().
			Model(doc).
			Column("handle", "version", "body", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, mapWriteError(err)
	}
	if updated == nil {
		return nil, nil
	}
	return s.toRecord(updated), nil
}

func (s *DocumentStore) FindOneAndRemove(ctx context.Context, criteria core.Criteria) (core.Record, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: document store is not configured")
	}
	var removed *documentRecord
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		doc, err := s.selectOne(ctx, tx, criteria)
		if err != nil || doc == nil {
			return err
		}
		if _, err := tx.NewDelete().Model(doc).WherePK().Exec(ctx); err != nil {
			return err
		}
		removed = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, nil
	}
	return s.toRecord(removed), nil
}

func (s *DocumentStore) selectOne(ctx context.Context, tx bun.Tx, criteria core.Criteria) (*documentRecord, error) {
	doc := new(documentRecord)
	q := tx.NewSelect().Model(doc)
	err := s.applySort(s.applyCriteria(q, criteria), nil).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// body strips the fields the store owns as columns.
func (s *DocumentStore) body(record core.Record) map[string]any {
	out := make(map[string]any, len(record))
	for key, value := range record {
		switch key {
		case s.identityField, core.VersionField, core.CreatedAtField, core.UpdatedAtField:
			continue
		}
		out[key] = value
	}
	return out
}

func (s *DocumentStore) handle(body map[string]any) *string {
	raw, ok := body[s.alternateKeyField]
	if !ok || raw == nil {
		return nil
	}
	value := strings.TrimSpace(fmt.Sprint(raw))
	if value == "" {
		return nil
	}
	return &value
}

func (s *DocumentStore) toRecord(doc *documentRecord) core.Record {
	if doc == nil {
		return nil
	}
	out := make(core.Record, len(doc.Body)+4)
	for key, value := range doc.Body {
		out[key] = value
	}
	out[s.identityField] = parseUUID(doc.ID)
	out[core.VersionField] = doc.Version
	out[core.CreatedAtField] = doc.CreatedAt
	out[core.UpdatedAtField] = doc.UpdatedAt
	return out
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("sqlstore: %w: %v", core.ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}

func sortedKeys(criteria core.Criteria) []string {
	keys := make([]string, 0, len(criteria))
	for key := range criteria {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
