package gologger

import (
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// LoggerName returns the logger name used for one resource, e.g. "resources.user".
func LoggerName(resource string) string {
	resource = strings.ToLower(strings.TrimSpace(resource))
	if resource == "" {
		return "resources"
	}
	return "resources." + resource
}

// ResolveForResource resolves a logger named after resource and tags it with
// the resource field when the logger supports fields. The returned logger is
// never nil.
func ResolveForResource(
	resource string,
	provider glog.LoggerProvider,
	logger glog.Logger,
) (glog.LoggerProvider, glog.Logger) {
	resolvedProvider, resolvedLogger := Resolve(LoggerName(resource), provider, logger)
	if resolvedLogger == nil {
		resolvedLogger = glog.Nop()
	}
	if name := strings.TrimSpace(resource); name != "" {
		if fieldsLogger, ok := resolvedLogger.(glog.FieldsLogger); ok {
			resolvedLogger = fieldsLogger.WithFields(map[string]any{"resource": name})
		}
	}
	return resolvedProvider, resolvedLogger
}
