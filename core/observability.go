package core

import (
	"context"
	"sort"
	"strings"
	"time"
)

func (e *Executor) observe(ctx context.Context, startedAt time.Time, outcome Outcome) {
	operation := normalizeOperation(string(outcome.Operation))
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if outcome.Err != nil {
		status = "failure"
	}

	fields := map[string]any{
		"resource":    e.resource,
		"operation":   string(outcome.Operation),
		"status":      status,
		"hooks_ran":   outcome.Ran,
		"duration_ms": time.Since(startedAt).Milliseconds(),
	}
	if outcome.Err != nil {
		fields["failed_stage"] = string(outcome.Stage)
		fields["failed_at"] = outcome.FailedAt
		fields["error"] = outcome.Err.Error()
	}

	tags := map[string]string{
		"resource":  e.resource,
		"operation": operation,
		"status":    status,
	}
	e.recordCounter(ctx, metricName(operation, metricTotal), 1, tags)
	e.recordHistogram(ctx, metricName(operation, metricDuration), float64(time.Since(startedAt).Milliseconds()), tags)

	if outcome.Err != nil {
		e.logWithLevel(ctx, "error", operation+" failed", fields)
		return
	}
	e.logWithLevel(ctx, "info", operation+" succeeded", fields)
}

func (e *Executor) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	logger := e.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	var args []any
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	} else {
		args = flattenFields(fields)
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (e *Executor) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (e *Executor) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
