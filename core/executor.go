package core

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Outcome describes how a pipeline run ended. FailedAt is -1 on success.
type Outcome struct {
	Operation Operation
	Ran       int
	FailedAt  int
	Stage     Stage
	Err       error
}

func (o Outcome) Succeeded() bool { return o.Err == nil }

// Executor runs compiled pipelines one hook at a time.
type Executor struct {
	resource string
	logger   Logger
	metrics  MetricsRecorder
}

func NewExecutor(resource string, logger Logger, metrics MetricsRecorder) *Executor {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return &Executor{
		resource: resource,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes every step in order against ex. The first failing hook stops the
// run and its error becomes the outcome. A cancelled context is reported as the
// failure of the next hook that would have run.
func (e *Executor) Run(ctx context.Context, pipeline Pipeline, ex *Exchange) Outcome {
	startedAt := time.Now()
	outcome := Outcome{Operation: pipeline.Operation, FailedAt: -1}

	for i, step := range pipeline.Steps {
		if err := ctx.Err(); err != nil {
			outcome.FailedAt = i
			outcome.Stage = step.Stage
			outcome.Err = err
			break
		}
		if step.Hook == nil {
			outcome.Ran++
			continue
		}
		err := invokeHook(ctx, step.Hook, ex)
		outcome.Ran++
		if err != nil {
			outcome.FailedAt = i
			outcome.Stage = step.Stage
			outcome.Err = err
			break
		}
	}

	if e != nil {
		e.observe(ctx, startedAt, outcome)
	}
	return outcome
}

// RunAsync runs the pipeline on its own goroutine and calls done exactly once.
func (e *Executor) RunAsync(ctx context.Context, pipeline Pipeline, ex *Exchange, done func(Outcome)) {
	var once sync.Once
	complete := func(outcome Outcome) {
		once.Do(func() {
			if done != nil {
				done(outcome)
			}
		})
	}
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				complete(Outcome{
					Operation: pipeline.Operation,
					FailedAt:  -1,
					Err:       panicError(recovered),
				})
			}
		}()
		complete(e.Run(ctx, pipeline, ex))
	}()
}

func invokeHook(ctx context.Context, hook Hook, ex *Exchange) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = panicError(recovered)
		}
	}()
	return hook.Handle(ctx, ex)
}

func panicError(recovered any) error {
	return goerrors.New(fmt.Sprintf("hook panicked: %v", recovered), goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ResourceErrorInternal)
}
