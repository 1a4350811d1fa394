package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

// documentRecord stores one resource as a JSON body. Identity, alternate key
// and revision live in columns so they can be indexed and constrained.
type documentRecord struct {
	bun.BaseModel `bun:"table:resource_documents,alias:rd"`

	ID         string         `bun:"id,pk"`
	Collection string         `bun:"collection,notnull"`
	Handle     *string        `bun:"handle"`
	Version    int            `bun:"version,notnull"`
	Body       map[string]any `bun:"body,type:jsonb,notnull"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
