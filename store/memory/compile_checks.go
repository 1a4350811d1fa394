package memory

import "github.com/goliatone/go-resources/core"

var _ core.ResourceStore = (*Store)(nil)
