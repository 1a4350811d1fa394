package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-resources/core"
	"github.com/google/uuid"
)

func fixedClock() func() time.Time {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestStore_InsertAssignsIdentityAndMetadata(t *testing.T) {
	store := NewStore(WithClock(fixedClock()))
	created, err := store.Insert(context.Background(), core.Record{"handle": "ada"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, ok := created[core.DefaultIdentityField].(uuid.UUID); !ok {
		t.Fatalf("expected generated uuid identity, got %T", created[core.DefaultIdentityField])
	}
	if created[core.VersionField] != 0 {
		t.Fatalf("expected revision 0, got %v", created[core.VersionField])
	}
	if created[core.CreatedAtField] == nil || created[core.UpdatedAtField] == nil {
		t.Fatalf("expected timestamps on created record")
	}
}

func TestStore_InsertKeepsClientIdentityAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(WithUniqueFields("handle"))
	id := uuid.New()

	if _, err := store.Insert(ctx, core.Record{"_id": id, "handle": "ada"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := store.Insert(ctx, core.Record{"_id": id, "handle": "grace"}); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate identity error, got %v", err)
	}
	if _, err := store.Insert(ctx, core.Record{"handle": "ada"}); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate handle error, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one stored record, got %d", store.Len())
	}
}

func TestStore_FindAppliesCriteriaSortAndPaging(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for _, doc := range []core.Record{
		{"handle": "c", "age": 30, "role": "admin"},
		{"handle": "a", "age": 20, "role": "admin"},
		{"handle": "b", "age": 40, "role": "admin"},
		{"handle": "d", "age": 50, "role": "user"},
	} {
		if _, err := store.Insert(ctx, doc); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	criteria := core.Criteria{"role": "admin"}
	count, err := store.Count(ctx, criteria)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 admins, got %d", count)
	}

	records, err := store.Find(ctx, criteria, core.NewProjection(core.VersionField), core.FindOptions{
		Skip:  1,
		Limit: 1,
		Sort:  []core.SortField{{Field: "age", Order: -1}},
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0]["handle"] != "c" {
		t.Fatalf("expected second oldest admin c, got %v", records[0]["handle"])
	}
	if _, ok := records[0][core.VersionField]; ok {
		t.Fatalf("expected projection to strip version")
	}

	byQuery, err := store.Count(ctx, core.Criteria{"age": "50"})
	if err != nil {
		t.Fatalf("count by query string: %v", err)
	}
	if byQuery != 1 {
		t.Fatalf("expected query string to match numeric field, got %d", byQuery)
	}
}

func TestStore_FindOneAndUpdateBumpsRevision(t *testing.T) {
	ctx := context.Background()
	store := NewStore(WithClock(fixedClock()), WithUniqueFields("handle"))
	first, _ := store.Insert(ctx, core.Record{"handle": "ada"})
	if _, err := store.Insert(ctx, core.Record{"handle": "grace"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	id := first[core.DefaultIdentityField]
	updated, err := store.FindOneAndUpdate(ctx, core.Criteria{"_id": id}, core.Record{
		"name":              "Ada",
		core.VersionField:   99,
		core.CreatedAtField: "ignored",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated[core.VersionField] != 1 {
		t.Fatalf("expected revision 1, got %v", updated[core.VersionField])
	}
	if updated["name"] != "Ada" {
		t.Fatalf("expected patched name, got %v", updated["name"])
	}
	if updated[core.CreatedAtField] != first[core.CreatedAtField] {
		t.Fatalf("expected createdAt to be preserved")
	}

	if _, err := store.FindOneAndUpdate(ctx, core.Criteria{"_id": id}, core.Record{"handle": "grace"}); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate on conflicting handle, got %v", err)
	}

	missing, err := store.FindOneAndUpdate(ctx, core.Criteria{"_id": uuid.New()}, core.Record{"name": "x"})
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing record, got %v, %v", missing, err)
	}
}

func TestStore_FindOneAndRemove(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	created, _ := store.Insert(ctx, core.Record{"handle": "ada"})

	removed, err := store.FindOneAndRemove(ctx, core.Criteria{"handle": "ada"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed[core.DefaultIdentityField] != created[core.DefaultIdentityField] {
		t.Fatalf("expected removed record to be returned")
	}
	again, err := store.FindOneAndRemove(ctx, core.Criteria{"handle": "ada"})
	if err != nil || again != nil {
		t.Fatalf("expected nil, nil on second remove, got %v, %v", again, err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestCompareValues(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want int
	}{
		{name: "ints", a: 1, b: 2, want: -1},
		{name: "mixed numbers", a: 2.5, b: 2, want: 1},
		{name: "strings", a: "b", b: "a", want: 1},
		{name: "nil first", a: nil, b: "a", want: -1},
		{name: "equal", a: "x", b: "x", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompareValues(tc.a, tc.b); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
