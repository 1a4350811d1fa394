package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-resources/core"
)

// MutatingController runs the write operations of one resource. *core.Controller
// satisfies it.
type MutatingController interface {
	Create(ctx context.Context, ex *core.Exchange) error
	Update(ctx context.Context, ex *core.Exchange) error
	Delete(ctx context.Context, ex *core.Exchange) error
}

type CreateCommand struct {
	controller MutatingController
}

func NewCreateCommand(controller MutatingController) *CreateCommand {
	return &CreateCommand{controller: controller}
}

func (c *CreateCommand) Execute(ctx context.Context, msg CreateMessage) error {
	if c == nil || c.controller == nil {
		return commandDependencyError("command: create controller is required")
	}
	ex := newExchange(msg.Body, nil, msg.Locals)
	if err := c.controller.Create(ctx, ex); err != nil {
		return err
	}
	storeResult(ctx, ex.Response)
	return nil
}

type UpdateCommand struct {
	controller MutatingController
}

func NewUpdateCommand(controller MutatingController) *UpdateCommand {
	return &UpdateCommand{controller: controller}
}

func (c *UpdateCommand) Execute(ctx context.Context, msg UpdateMessage) error {
	if c == nil || c.controller == nil {
		return commandDependencyError("command: update controller is required")
	}
	ex := newExchange(msg.Body, map[string]string{core.ParamID: msg.ID}, msg.Locals)
	if err := c.controller.Update(ctx, ex); err != nil {
		return err
	}
	storeResult(ctx, ex.Response)
	return nil
}

type DeleteCommand struct {
	controller MutatingController
}

func NewDeleteCommand(controller MutatingController) *DeleteCommand {
	return &DeleteCommand{controller: controller}
}

func (c *DeleteCommand) Execute(ctx context.Context, msg DeleteMessage) error {
	if c == nil || c.controller == nil {
		return commandDependencyError("command: delete controller is required")
	}
	ex := newExchange(nil, map[string]string{core.ParamID: msg.ID}, msg.Locals)
	if err := c.controller.Delete(ctx, ex); err != nil {
		return err
	}
	storeResult(ctx, ex.Response)
	return nil
}

func newExchange(body core.Record, params map[string]string, locals map[string]any) *core.Exchange {
	ex := core.NewExchange(core.Request{Body: body.Clone(), Params: params})
	for key, value := range locals {
		ex.SetLocal(key, value)
	}
	return ex
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
