package command

import (
	"strings"

	"github.com/goliatone/go-resources/core"
)

const (
	TypeCreate = "resources.command.create"
	TypeUpdate = "resources.command.update"
	TypeDelete = "resources.command.delete"
)

type CreateMessage struct {
	Body   core.Record
	Locals map[string]any
}

func (CreateMessage) Type() string { return TypeCreate }

func (m CreateMessage) Validate() error {
	if m.Body == nil {
		return commandValidationError("body", "body is required")
	}
	return nil
}

type UpdateMessage struct {
	ID     string
	Body   core.Record
	Locals map[string]any
}

func (UpdateMessage) Type() string { return TypeUpdate }

func (m UpdateMessage) Validate() error {
	if err := validateID(m.ID); err != nil {
		return err
	}
	if m.Body == nil {
		return commandValidationError("body", "body is required")
	}
	return nil
}

type DeleteMessage struct {
	ID     string
	Locals map[string]any
}

func (DeleteMessage) Type() string { return TypeDelete }

func (m DeleteMessage) Validate() error {
	return validateID(m.ID)
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return commandValidationError("id", "id is required")
	}
	return nil
}
