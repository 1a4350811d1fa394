package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-resources/core"
)

const DefaultMaxBodyBytes int64 = 1 << 20

// Endpoint is the controller surface the HTTP boundary needs. *core.Controller
// satisfies it.
type Endpoint interface {
	Handle(ctx context.Context, op core.Operation, ex *core.Exchange) error
	MapError(err error) *goerrors.Error
	Logger() core.Logger
}

// LocalsFunc copies request-scoped values, such as the authenticated principal,
// onto the exchange before the pipeline runs.
type LocalsFunc func(r *http.Request, ex *core.Exchange)

type Option func(*handler)

func WithMaxBodyBytes(limit int64) Option {
	return func(h *handler) {
		if limit > 0 {
			h.maxBodyBytes = limit
		}
	}
}

func WithLocals(fn LocalsFunc) Option {
	return func(h *handler) {
		if fn != nil {
			h.locals = append(h.locals, fn)
		}
	}
}

type handler struct {
	endpoint     Endpoint
	maxBodyBytes int64
	locals       []LocalsFunc
}

// Routes returns a router serving the five operations of endpoint.
func Routes(endpoint Endpoint, opts ...Option) chi.Router {
	h := &handler{endpoint: endpoint, maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	r := chi.NewRouter()
	r.Post("/", h.serve(core.OperationCreate, true))
	r.Get("/", h.serve(core.OperationGetAll, false))
	r.Get("/{id}", h.serve(core.OperationGet, false))
	r.Put("/{id}", h.serve(core.OperationUpdate, true))
	r.Patch("/{id}", h.serve(core.OperationUpdate, true))
	r.Delete("/{id}", h.serve(core.OperationDelete, false))
	return r
}

// Mount attaches the resource routes under pattern, e.g. "/users".
func Mount(r chi.Router, pattern string, endpoint Endpoint, opts ...Option) {
	r.Mount(pattern, Routes(endpoint, opts...))
}

func (h *handler) serve(op core.Operation, withBody bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := core.Request{
			Query:  queryValues(r),
			Params: map[string]string{},
		}
		if id := chi.URLParam(r, core.ParamID); id != "" {
			req.Params[core.ParamID] = id
		}
		if withBody {
			body, err := h.decodeBody(w, r)
			if err != nil {
				h.writeError(w, r, op, err)
				return
			}
			req.Body = body
		}

		ex := core.NewExchange(req)
		for _, fn := range h.locals {
			fn(r, ex)
		}

		if err := h.endpoint.Handle(r.Context(), op, ex); err != nil {
			h.writeError(w, r, op, err)
			return
		}
		writeResponse(w, ex.Response)
	}
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request) (core.Record, error) {
	if r.Body == nil {
		return core.Record{}, nil
	}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	body := core.Record{}
	if err := decoder.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Record{}, nil
		}
		return nil, bodyError(err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, core.NewBadInputError("request body must contain a single JSON object")
		}
		return nil, bodyError(err)
	}
	if body == nil {
		body = core.Record{}
	}
	return body, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return core.NewBadInputError("request body too large").
			WithCode(http.StatusRequestEntityTooLarge)
	}
	return core.NewBadInputError("request body must be a JSON object")
}

// queryValues keeps single values as strings and repeated keys as []string.
func queryValues(r *http.Request) map[string]any {
	values := r.URL.Query()
	out := make(map[string]any, len(values))
	for key, list := range values {
		switch len(list) {
		case 0:
			continue
		case 1:
			out[key] = list[0]
		default:
			out[key] = append([]string(nil), list...)
		}
	}
	return out
}

func writeResponse(w http.ResponseWriter, res core.Response) {
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusNoContent || res.Body == nil {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, res.Body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
