package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// TaskFunc runs one compiled pipeline against an exchange.
type TaskFunc func(ctx context.Context, ex *Exchange) error

// PipelineProvider is implemented by anything that can serve resource
// operations through compiled pipelines.
type PipelineProvider interface {
	Task(op Operation) (TaskFunc, error)
	ResourceName() string
	PluralName() string
}
