package core

import (
	"net/http"
	"sync"
)

// Request is the inbound half of an exchange. Hooks may rewrite any field;
// later hooks observe the change.
type Request struct {
	Body   Record
	Query  map[string]any
	Params map[string]string
}

// Response is the outbound half of an exchange.
type Response struct {
	Status  int
	Body    any
	Written bool
}

// Exchange carries one request/response pair through a pipeline. It is owned by
// a single pipeline execution and is not shared across requests.
type Exchange struct {
	Request  Request
	Response Response

	mu     sync.Mutex
	locals map[string]any
}

func NewExchange(req Request) *Exchange {
	if req.Body == nil {
		req.Body = Record{}
	}
	if req.Query == nil {
		req.Query = map[string]any{}
	}
	if req.Params == nil {
		req.Params = map[string]string{}
	}
	return &Exchange{
		Request:  req,
		Response: Response{Status: http.StatusOK},
	}
}

func (ex *Exchange) ensure() {
	if ex.Request.Body == nil {
		ex.Request.Body = Record{}
	}
	if ex.Request.Query == nil {
		ex.Request.Query = map[string]any{}
	}
	if ex.Request.Params == nil {
		ex.Request.Params = map[string]string{}
	}
	if ex.Response.Status == 0 {
		ex.Response.Status = http.StatusOK
	}
}

// Param returns a path parameter.
func (ex *Exchange) Param(name string) string {
	if ex == nil || ex.Request.Params == nil {
		return ""
	}
	return ex.Request.Params[name]
}

// SetLocal stores a value for later hooks in the same pipeline.
func (ex *Exchange) SetLocal(key string, value any) {
	if ex == nil {
		return
	}
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.locals == nil {
		ex.locals = map[string]any{}
	}
	ex.locals[key] = value
}

func (ex *Exchange) Local(key string) (any, bool) {
	if ex == nil {
		return nil, false
	}
	ex.mu.Lock()
	defer ex.mu.Unlock()
	value, ok := ex.locals[key]
	return value, ok
}

// JSON writes status and body.
func (ex *Exchange) JSON(status int, body any) {
	ex.Response.Status = status
	ex.Response.Body = body
	ex.Response.Written = true
}

// NoContent writes a 204 with an empty body.
func (ex *Exchange) NoContent() {
	ex.Response.Status = http.StatusNoContent
	ex.Response.Body = nil
	ex.Response.Written = true
}
