package core

import (
	"context"
	"sync"
)

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	return l.values, nil
}

// nopStore satisfies ResourceStore for tests that never reach the execute stage.
type nopStore struct{}

func (nopStore) Insert(context.Context, Record) (Record, error) { return nil, nil }
func (nopStore) FindOne(context.Context, Criteria, Projection) (Record, error) {
	return nil, nil
}
func (nopStore) Find(context.Context, Criteria, Projection, FindOptions) ([]Record, error) {
	return nil, nil
}
func (nopStore) Count(context.Context, Criteria) (int, error) { return 0, nil }
func (nopStore) FindOneAndUpdate(context.Context, Criteria, Record) (Record, error) {
	return nil, nil
}
func (nopStore) FindOneAndRemove(context.Context, Criteria) (Record, error) {
	return nil, nil
}

// traceHook records its name into a shared, ordered trace.
type traceRecorder struct {
	mu    sync.Mutex
	names []string
}

func (r *traceRecorder) hook(name string) Hook {
	return HookFunc(func(context.Context, *Exchange) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.names = append(r.names, name)
		return nil
	})
}

func (r *traceRecorder) failing(name string, err error) Hook {
	return HookFunc(func(context.Context, *Exchange) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.names = append(r.names, name)
		return err
	})
}

func (r *traceRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
