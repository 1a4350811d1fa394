package core

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	resolver := IdentityResolver{
		Parser:            UUIDIdentityParser{},
		IdentityField:     DefaultIdentityField,
		AlternateKeyField: DefaultAlternateKeyField,
	}
	id := uuid.New()

	criteria := resolver.Resolve(id.String())
	if criteria[DefaultIdentityField] != id {
		t.Fatalf("expected identity criteria, got %v", criteria)
	}
	if len(criteria) != 1 {
		t.Fatalf("expected single criteria entry, got %v", criteria)
	}

	criteria = resolver.Resolve("ada")
	if criteria[DefaultAlternateKeyField] != "ada" || len(criteria) != 1 {
		t.Fatalf("expected alternate key criteria, got %v", criteria)
	}

	criteria = IdentityResolver{}.Resolve("")
	if _, ok := criteria[DefaultAlternateKeyField]; !ok {
		t.Fatalf("expected empty identifier to fall back to alternate key, got %v", criteria)
	}
}

func TestUUIDIdentityParser(t *testing.T) {
	id := uuid.New()
	parser := UUIDIdentityParser{}

	for _, input := range []any{id, &id, id.String(), []byte(id.String())} {
		got, err := parser.Parse(input)
		if err != nil {
			t.Fatalf("parse %T: %v", input, err)
		}
		if got != id {
			t.Fatalf("expected %s, got %v", id, got)
		}
	}
	for _, input := range []any{"not-a-uuid", "", 42, (*uuid.UUID)(nil)} {
		if _, err := parser.Parse(input); err == nil {
			t.Fatalf("expected parse failure for %#v", input)
		}
	}
}

func TestIdentityResolver_Matches(t *testing.T) {
	resolver := IdentityResolver{Parser: UUIDIdentityParser{}, IdentityField: "uid"}
	id := uuid.New()
	record := Record{"uid": id, DefaultAlternateKeyField: "ada"}

	cases := []struct {
		name       string
		identifier string
		want       bool
	}{
		{name: "canonical", identifier: id.String(), want: true},
		{name: "uppercase", identifier: strings.ToUpper(id.String()), want: true},
		{name: "braced", identifier: "{" + id.String() + "}", want: true},
		{name: "urn", identifier: id.URN(), want: true},
		{name: "handle", identifier: "ada", want: true},
		{name: "other id", identifier: uuid.NewString(), want: false},
		{name: "other handle", identifier: "grace", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolver.Matches(record, tc.identifier); got != tc.want {
				t.Fatalf("Matches(%q) = %v, want %v", tc.identifier, got, tc.want)
			}
		})
	}

	if !resolver.Matches(Record{"uid": id.String()}, strings.ToUpper(id.String())) {
		t.Fatalf("expected string identity on the record to match")
	}
	if resolver.Matches(nil, id.String()) {
		t.Fatalf("expected nil record not to match")
	}
}
