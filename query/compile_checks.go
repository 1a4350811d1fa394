package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-resources/core"
)

var (
	_ gocmd.Querier[GetMessage, core.Response]  = (*GetQuery)(nil)
	_ gocmd.Querier[ListMessage, core.Response] = (*ListQuery)(nil)

	_ ReadingController = (*core.Controller)(nil)
)
