package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-resources/core"
)

var (
	_ gocmd.Commander[CreateMessage] = (*CreateCommand)(nil)
	_ gocmd.Commander[UpdateMessage] = (*UpdateCommand)(nil)
	_ gocmd.Commander[DeleteMessage] = (*DeleteCommand)(nil)

	_ MutatingController = (*core.Controller)(nil)
)
