package core

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Controller owns the hook registry for one resource and serves its five
// operations as compiled pipelines over a ResourceStore.
type Controller struct {
	config     Config
	store      ResourceStore
	registry   *HookRegistry
	executor   *Executor
	identity   IdentityParser
	resolver   IdentityResolver
	projection Projection

	logger         Logger
	loggerProvider LoggerProvider
	metrics        MetricsRecorder
	errorMapper    ErrorMapper
}

func NewController(cfg Config, store ResourceStore, opts ...Option) (*Controller, error) {
	builder := defaultControllerBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	// An explicit logger wins; the provider only names one when none was given.
	provider, logger := builder.loggerProvider, builder.logger
	if logger == nil {
		provider, logger = glog.Resolve("resources", provider, nil)
	} else if provider == nil {
		provider = glog.ProviderFromLogger(logger)
	}
	logger = glog.Ensure(logger)

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = MapError
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.identityParser == nil {
		builder.identityParser = UUIDIdentityParser{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig = finalConfig.normalized()
	if err := finalConfig.Validate(); err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if store == nil {
		return nil, fmt.Errorf("core: resource store is required for %q", finalConfig.ResourceName)
	}

	controller := &Controller{
		config:   finalConfig,
		store:    store,
		registry: NewHookRegistry(),
		identity: builder.identityParser,
		resolver: IdentityResolver{
			Parser:            builder.identityParser,
			IdentityField:     finalConfig.IdentityField,
			AlternateKeyField: finalConfig.AlternateKeyField,
		},
		projection:     finalConfig.projection(),
		logger:         logger,
		loggerProvider: provider,
		metrics:        builder.metricsRecorder,
		errorMapper:    builder.errorMapper,
	}
	controller.executor = NewExecutor(finalConfig.ResourceName, logger, builder.metricsRecorder)

	for _, op := range Operations() {
		if err := controller.registry.Execute(op, controller.defaultExecuteHooks()[op]); err != nil {
			return nil, err
		}
	}
	for _, set := range builder.hookSets {
		if err := controller.registry.RegisterAll(set); err != nil {
			return nil, err
		}
	}

	return controller, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (c *Controller) Registry() *HookRegistry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Controller) Normalize(op Operation, hook Hook) error { return c.registry.Normalize(op, hook) }

func (c *Controller) Authorize(op Operation, hook Hook) error { return c.registry.Authorize(op, hook) }

func (c *Controller) Pre(op Operation, hook Hook) error { return c.registry.Pre(op, hook) }

func (c *Controller) Post(op Operation, hook Hook) error { return c.registry.Post(op, hook) }

// Execute replaces the execute hook for op, overriding the default CRUD handler.
func (c *Controller) Execute(op Operation, hook Hook) error { return c.registry.Execute(op, hook) }

// Task compiles the pipeline for op at call time, so the returned function sees
// every hook registered so far.
func (c *Controller) Task(op Operation) (TaskFunc, error) {
	if c == nil {
		return nil, fmt.Errorf("core: controller is nil")
	}
	pipeline, err := c.registry.Compile(op)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, ex *Exchange) error {
		return c.Run(ctx, pipeline, ex).Err
	}, nil
}

// Run executes an already compiled pipeline.
func (c *Controller) Run(ctx context.Context, pipeline Pipeline, ex *Exchange) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	if ex == nil {
		ex = NewExchange(Request{})
	}
	ex.ensure()
	return c.executor.Run(ctx, pipeline, ex)
}

// RunAsync compiles op and runs it off the caller's goroutine. done fires once.
func (c *Controller) RunAsync(ctx context.Context, op Operation, ex *Exchange, done func(Outcome)) error {
	pipeline, err := c.registry.Compile(op)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if ex == nil {
		ex = NewExchange(Request{})
	}
	ex.ensure()
	c.executor.RunAsync(ctx, pipeline, ex, done)
	return nil
}

// Handle compiles and runs op against ex. Errors are returned unmapped.
func (c *Controller) Handle(ctx context.Context, op Operation, ex *Exchange) error {
	task, err := c.Task(op)
	if err != nil {
		return err
	}
	return task(ctx, ex)
}

func (c *Controller) Create(ctx context.Context, ex *Exchange) error {
	return c.Handle(ctx, OperationCreate, ex)
}

func (c *Controller) Get(ctx context.Context, ex *Exchange) error {
	return c.Handle(ctx, OperationGet, ex)
}

func (c *Controller) GetAll(ctx context.Context, ex *Exchange) error {
	return c.Handle(ctx, OperationGetAll, ex)
}

func (c *Controller) Update(ctx context.Context, ex *Exchange) error {
	return c.Handle(ctx, OperationUpdate, ex)
}

func (c *Controller) Delete(ctx context.Context, ex *Exchange) error {
	return c.Handle(ctx, OperationDelete, ex)
}

// MapError converts any pipeline error to the response envelope.
func (c *Controller) MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if c == nil || c.errorMapper == nil {
		return MapError(err)
	}
	if mapped := c.errorMapper(err); mapped != nil {
		return mapped
	}
	return MapError(err)
}

func (c *Controller) Store() ResourceStore {
	if c == nil {
		return nil
	}
	return c.store
}

func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Controller) ResourceName() string {
	if c == nil {
		return ""
	}
	return c.config.ResourceName
}

func (c *Controller) PluralName() string {
	if c == nil {
		return ""
	}
	return c.config.PluralName
}

// Resolver returns the identifier rule used by get, update and delete.
func (c *Controller) Resolver() IdentityResolver {
	if c == nil {
		return IdentityResolver{}
	}
	return c.resolver
}

func (c *Controller) Logger() Logger {
	if c == nil {
		return glog.Nop()
	}
	return c.logger
}

// Projection returns the fields stripped from every response.
func (c *Controller) Projection() Projection {
	if c == nil {
		return nil
	}
	return NewProjection(c.projection.Fields()...)
}
