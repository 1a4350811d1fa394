package resources

import "github.com/goliatone/go-resources/core"

type Config = core.Config
type PaginationConfig = core.PaginationConfig
type ProjectionConfig = core.ProjectionConfig

type Option = core.Option

type Controller = core.Controller

type Exchange = core.Exchange
type Request = core.Request
type Response = core.Response

type Record = core.Record
type Criteria = core.Criteria
type Projection = core.Projection
type FindOptions = core.FindOptions
type SortField = core.SortField
type ResourceStore = core.ResourceStore

type Operation = core.Operation
type Stage = core.Stage

type Hook = core.Hook
type HookFunc = core.HookFunc
type HookSet = core.HookSet

const (
	OperationCreate = core.OperationCreate
	OperationGet    = core.OperationGet
	OperationGetAll = core.OperationGetAll
	OperationUpdate = core.OperationUpdate
	OperationDelete = core.OperationDelete
	OperationAny    = core.OperationAny

	StageNormalize = core.StageNormalize
	StageAuthorize = core.StageAuthorize
	StagePre       = core.StagePre
	StageExecute   = core.StageExecute
	StagePost      = core.StagePost
)

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithIdentityParser  = core.WithIdentityParser
	WithHooks           = core.WithHooks
)

func NewExchange(req Request) *Exchange {
	return core.NewExchange(req)
}

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewController(cfg Config, store ResourceStore, opts ...Option) (*Controller, error) {
	return core.NewController(cfg, store, opts...)
}
