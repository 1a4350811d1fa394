package sqlstore

import "github.com/goliatone/go-resources/core"

var _ core.ResourceStore = (*DocumentStore)(nil)
