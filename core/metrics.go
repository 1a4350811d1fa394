package core

import "context"

// MetricsRecorder receives one counter and one duration histogram per
// pipeline run, tagged with resource, operation and status.
type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

const (
	metricTotal    = "total"
	metricDuration = "duration_ms"
)

// metricName builds names like resources.create.total.
func metricName(operation string, suffix string) string {
	if operation == "" {
		operation = "unknown"
	}
	return "resources." + operation + "." + suffix
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

var _ MetricsRecorder = NopMetricsRecorder{}
