package query

import (
	"context"

	"github.com/goliatone/go-resources/core"
)

// ReadingController runs the read operations of one resource. *core.Controller
// satisfies it.
type ReadingController interface {
	Get(ctx context.Context, ex *core.Exchange) error
	GetAll(ctx context.Context, ex *core.Exchange) error
}

type GetQuery struct {
	controller ReadingController
}

func NewGetQuery(controller ReadingController) *GetQuery {
	return &GetQuery{controller: controller}
}

func (q *GetQuery) Query(ctx context.Context, msg GetMessage) (core.Response, error) {
	if q == nil || q.controller == nil {
		return core.Response{}, queryDependencyError("query: get controller is required")
	}
	ex := core.NewExchange(core.Request{Params: map[string]string{core.ParamID: msg.ID}})
	setLocals(ex, msg.Locals)
	if err := q.controller.Get(ctx, ex); err != nil {
		return core.Response{}, err
	}
	return ex.Response, nil
}

type ListQuery struct {
	controller ReadingController
}

func NewListQuery(controller ReadingController) *ListQuery {
	return &ListQuery{controller: controller}
}

func (q *ListQuery) Query(ctx context.Context, msg ListMessage) (core.Response, error) {
	if q == nil || q.controller == nil {
		return core.Response{}, queryDependencyError("query: list controller is required")
	}
	params := make(map[string]any, len(msg.Query))
	for key, value := range msg.Query {
		params[key] = value
	}
	ex := core.NewExchange(core.Request{Query: params})
	setLocals(ex, msg.Locals)
	if err := q.controller.GetAll(ctx, ex); err != nil {
		return core.Response{}, err
	}
	return ex.Response, nil
}

func setLocals(ex *core.Exchange, locals map[string]any) {
	for key, value := range locals {
		ex.SetLocal(key, value)
	}
}
