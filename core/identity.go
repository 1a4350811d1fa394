package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IdentityParser converts caller-supplied values to the store identity type.
type IdentityParser interface {
	Parse(value any) (any, error)
}

// UUIDIdentityParser accepts uuid.UUID values and canonical UUID strings.
type UUIDIdentityParser struct{}

func (UUIDIdentityParser) Parse(value any) (any, error) {
	switch typed := value.(type) {
	case uuid.UUID:
		return typed, nil
	case *uuid.UUID:
		if typed == nil {
			return nil, fmt.Errorf("core: identity is nil")
		}
		return *typed, nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil, fmt.Errorf("core: identity is empty")
		}
		id, err := uuid.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("core: invalid identity %q: %w", trimmed, err)
		}
		return id, nil
	case []byte:
		id, err := uuid.ParseBytes(typed)
		if err != nil {
			return nil, fmt.Errorf("core: invalid identity: %w", err)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("core: unsupported identity type %T", value)
	}
}

// IdentityResolver turns a resource identifier into store criteria. Canonical
// identity is attempted first; a parse failure falls back to the alternate key.
type IdentityResolver struct {
	Parser            IdentityParser
	IdentityField     string
	AlternateKeyField string
}

func (r IdentityResolver) Resolve(identifier string) Criteria {
	if id, err := r.parser().Parse(identifier); err == nil {
		return Criteria{r.identityField(): id}
	}
	return Criteria{r.alternateKeyField(): identifier}
}

// Matches reports whether record is the one identifier resolves to. Identities
// are compared after parsing both sides, so any accepted spelling matches.
func (r IdentityResolver) Matches(record Record, identifier string) bool {
	if record == nil {
		return false
	}
	for field, want := range r.Resolve(identifier) {
		got, ok := record[field]
		if !ok || got == nil {
			return false
		}
		if field == r.identityField() {
			parsed, err := r.parser().Parse(got)
			return err == nil && fmt.Sprint(parsed) == fmt.Sprint(want)
		}
		return fmt.Sprint(got) == fmt.Sprint(want)
	}
	return false
}

func (r IdentityResolver) parser() IdentityParser {
	if r.Parser == nil {
		return UUIDIdentityParser{}
	}
	return r.Parser
}

func (r IdentityResolver) identityField() string {
	if field := strings.TrimSpace(r.IdentityField); field != "" {
		return field
	}
	return DefaultIdentityField
}

func (r IdentityResolver) alternateKeyField() string {
	if field := strings.TrimSpace(r.AlternateKeyField); field != "" {
		return field
	}
	return DefaultAlternateKeyField
}
