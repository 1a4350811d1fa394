package httpapi

import "github.com/goliatone/go-resources/core"

var _ Endpoint = (*core.Controller)(nil)
