package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	fileKey   contextKey = "file"
	workerKey contextKey = "worker"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFile annotates context with the sample path being processed.
func WithFile(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, fileKey, path)
}

// FileFromContext returns the sample path if present.
func FileFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(fileKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithWorker annotates context with the 1-based worker number.
func WithWorker(ctx context.Context, worker int) context.Context {
	if worker <= 0 {
		return ctx
	}
	return context.WithValue(ctx, workerKey, worker)
}

// WorkerFromContext extracts the worker number if present.
func WorkerFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(workerKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
