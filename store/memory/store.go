package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-resources/core"
	"github.com/google/uuid"
)

// Store is an in-process core.ResourceStore. Records keep insertion order,
// which is also the order Find returns when no sort is given.
type Store struct {
	mu            sync.RWMutex
	records       []core.Record
	identityField string
	uniqueFields  []string
	now           func() time.Time
}

type Option func(*Store)

// WithIdentityField changes the field that carries the generated UUID.
func WithIdentityField(field string) Option {
	return func(s *Store) {
		if field = strings.TrimSpace(field); field != "" {
			s.identityField = field
		}
	}
}

// WithUniqueFields rejects writes that would give two records the same non-empty value.
func WithUniqueFields(fields ...string) Option {
	return func(s *Store) {
		for _, field := range fields {
			if field = strings.TrimSpace(field); field != "" {
				s.uniqueFields = append(s.uniqueFields, field)
			}
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(opts ...Option) *Store {
	store := &Store{
		identityField: core.DefaultIdentityField,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

func (s *Store) Insert(_ context.Context, record core.Record) (core.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("memory: store is not configured")
	}
	doc := record.Clone()
	if doc == nil {
		doc = core.Record{}
	}
	if id, ok := doc[s.identityField]; !ok || id == nil {
		doc[s.identityField] = uuid.New()
	}
	now := s.now()
	doc[core.VersionField] = 0
	doc[core.CreatedAtField] = now
	doc[core.UpdatedAtField] = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(core.Criteria{s.identityField: doc[s.identityField]}) >= 0 {
		return nil, fmt.Errorf("memory: %s %v already exists: %w", s.identityField, doc[s.identityField], core.ErrDuplicate)
	}
	if err := s.checkUnique(doc, -1); err != nil {
		return nil, err
	}
	s.records = append(s.records, doc)
	return doc.Clone(), nil
}

func (s *Store) FindOne(_ context.Context, criteria core.Criteria, projection core.Projection) (core.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("memory: store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := s.indexOf(criteria)
	if index < 0 {
		return nil, nil
	}
	return projection.Apply(s.records[index]), nil
}

func (s *Store) Find(_ context.Context, criteria core.Criteria, projection core.Projection, opts core.FindOptions) ([]core.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("memory: store is not configured")
	}
	s.mu.RLock()
	matched := make([]core.Record, 0, len(s.records))
	for _, record := range s.records {
		if Matches(record, criteria) {
			matched = append(matched, record)
		}
	}
	s.mu.RUnlock()

	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, field := range opts.Sort {
				cmp := CompareValues(matched[i][field.Field], matched[j][field.Field])
				if cmp == 0 {
					continue
				}
				if field.Order < 0 {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]core.Record, 0, len(matched))
	for _, record := range matched {
		out = append(out, projection.Apply(record))
	}
	return out, nil
}

func (s *Store) Count(_ context.Context, criteria core.Criteria) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("memory: store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, record := range s.records {
		if Matches(record, criteria) {
			count++
		}
	}
	return count, nil
}

// FindOneAndUpdate merges patch into the first match and returns the updated record.
func (s *Store) FindOneAndUpdate(_ context.Context, criteria core.Criteria, patch core.Record) (core.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("memory: store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.indexOf(criteria)
	if index < 0 {
		return nil, nil
	}

	next := s.records[index].Clone()
	for key, value := range patch {
		switch key {
		case s.identityField, core.VersionField, core.CreatedAtField:
			continue
		}
		next[key] = value
	}
	if err := s.checkUnique(next, index); err != nil {
		return nil, err
	}
	next[core.VersionField] = revision(next[core.VersionField]) + 1
	next[core.UpdatedAtField] = s.now()
	s.records[index] = next
	return next.Clone(), nil
}

func (s *Store) FindOneAndRemove(_ context.Context, criteria core.Criteria) (core.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("memory: store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.indexOf(criteria)
	if index < 0 {
		return nil, nil
	}
	removed := s.records[index]
	s.records = append(s.records[:index], s.records[index+1:]...)
	return removed.Clone(), nil
}

// Len reports how many records are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) indexOf(criteria core.Criteria) int {
	for index, record := range s.records {
		if Matches(record, criteria) {
			return index
		}
	}
	return -1
}

func (s *Store) checkUnique(doc core.Record, skip int) error {
	for _, field := range s.uniqueFields {
		value, ok := doc[field]
		if !ok || value == nil || fmt.Sprint(value) == "" {
			continue
		}
		for index, record := range s.records {
			if index == skip {
				continue
			}
			if Equal(record[field], value) {
				return fmt.Errorf("memory: %s %q already taken: %w", field, fmt.Sprint(value), core.ErrDuplicate)
			}
		}
	}
	return nil
}

func revision(value any) int {
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	}
	return 0
}
