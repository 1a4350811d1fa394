package core

import (
	"context"
	"errors"
	"maps"
)

// ErrDuplicate is wrapped by stores when a uniqueness constraint rejects a write.
var ErrDuplicate = errors.New("core: duplicate resource")

// Record is one stored resource as structured key-value data.
type Record map[string]any

// Criteria selects records. Every entry is an equality filter.
type Criteria map[string]any

// Projection lists the fields removed from records before they leave the store.
type Projection map[string]struct{}

// SortField orders results; Order is 1 for ascending and -1 for descending.
type SortField struct {
	Field string
	Order int
}

type FindOptions struct {
	Skip  int
	Limit int
	Sort  []SortField
}

// ResourceStore is the persistence boundary the CRUD algorithms run against.
// FindOne, FindOneAndUpdate and FindOneAndRemove return a nil record and a nil
// error when nothing matches. FindOneAndUpdate and FindOneAndRemove must be
// atomic at the store.
type ResourceStore interface {
	Insert(ctx context.Context, record Record) (Record, error)
	FindOne(ctx context.Context, criteria Criteria, projection Projection) (Record, error)
	Find(ctx context.Context, criteria Criteria, projection Projection, opts FindOptions) ([]Record, error)
	Count(ctx context.Context, criteria Criteria) (int, error)
	FindOneAndUpdate(ctx context.Context, criteria Criteria, patch Record) (Record, error)
	FindOneAndRemove(ctx context.Context, criteria Criteria) (Record, error)
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	maps.Copy(out, r)
	return out
}

func (c Criteria) Clone() Criteria {
	if c == nil {
		return Criteria{}
	}
	out := make(Criteria, len(c))
	maps.Copy(out, c)
	return out
}

// NewProjection builds an exclusion set.
func NewProjection(fields ...string) Projection {
	out := make(Projection, len(fields))
	for _, field := range fields {
		if field == "" {
			continue
		}
		out[field] = struct{}{}
	}
	return out
}

func (p Projection) Excludes(field string) bool {
	_, ok := p[field]
	return ok
}

// Apply returns a copy of record without the excluded fields.
func (p Projection) Apply(record Record) Record {
	if record == nil {
		return nil
	}
	out := make(Record, len(record))
	for key, value := range record {
		if p.Excludes(key) {
			continue
		}
		out[key] = value
	}
	return out
}

// Fields returns the excluded field names.
func (p Projection) Fields() []string {
	out := make([]string, 0, len(p))
	for field := range p {
		out = append(out, field)
	}
	return out
}
