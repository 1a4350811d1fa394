package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	resources "github.com/goliatone/go-resources"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const (
	sourceLabel = "go-resources"
	rootDir     = "data/sql/migrations"
)

// Dialect is the resource_documents schema for one SQL dialect.
type Dialect struct {
	Name string
	Dir  string
	FS   fs.FS
}

type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*selection)

type selection struct {
	dialects []string
}

// WithDialects limits registration to the named dialects.
func WithDialects(names ...string) Option {
	return func(s *selection) {
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" && !slices.Contains(s.dialects, name) {
				s.dialects = append(s.dialects, name)
			}
		}
	}
}

// Dialects returns the embedded schema for every supported dialect. Postgres
// files sit at the root of the tree and SQLite files under sqlite/.
func Dialects() ([]Dialect, error) {
	root := resources.GetMigrationsFS()
	layout := []Dialect{
		{Name: DialectPostgres, Dir: rootDir},
		{Name: DialectSQLite, Dir: rootDir + "/sqlite"},
	}
	for i := range layout {
		sub, err := fs.Sub(root, layout[i].Dir)
		if err != nil {
			return nil, fmt.Errorf("migrations: resolve %s: %w", layout[i].Dir, err)
		}
		matches, err := fs.Glob(sub, "*.up.sql")
		if err != nil {
			return nil, fmt.Errorf("migrations: glob %s: %w", layout[i].Dir, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s has no *.up.sql files", layout[i].Dir)
		}
		layout[i].FS = sub
	}
	return layout, nil
}

// Register hands each selected dialect's schema to registerFn, e.g. a
// persistence client's RegisterSQLMigrations, and returns the dialects it
// registered. Every dialect is selected unless WithDialects narrows it.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) ([]string, error) {
	if registerFn == nil {
		return nil, fmt.Errorf("migrations: register function is required")
	}
	var sel selection
	for _, opt := range opts {
		if opt != nil {
			opt(&sel)
		}
	}

	dialects, err := Dialects()
	if err != nil {
		return nil, err
	}
	for _, name := range sel.dialects {
		if !slices.ContainsFunc(dialects, func(d Dialect) bool { return d.Name == name }) {
			return nil, fmt.Errorf("migrations: unsupported dialect %q", name)
		}
	}

	registered := make([]string, 0, len(dialects))
	for _, dialect := range dialects {
		if len(sel.dialects) > 0 && !slices.Contains(sel.dialects, dialect.Name) {
			continue
		}
		if err := registerFn(ctx, dialect.Name, sourceLabel, dialect.FS); err != nil {
			return registered, fmt.Errorf("migrations: register %s: %w", dialect.Name, err)
		}
		registered = append(registered, dialect.Name)
	}
	return registered, nil
}
