package services_test

import (
	"context"
	"testing"

	"slimsamples/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithFile(ctx, "kit/kick.wav")
	ctx = services.WithWorker(ctx, 3)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if path, ok := services.FileFromContext(ctx); !ok || path != "kit/kick.wav" {
		t.Fatalf("unexpected file: %v %v", path, ok)
	}
	if worker, ok := services.WorkerFromContext(ctx); !ok || worker != 3 {
		t.Fatalf("unexpected worker: %v %v", worker, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithFile(ctx, "")
	ctx = services.WithWorker(ctx, 0)
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id")
	}
	if _, ok := services.FileFromContext(ctx); ok {
		t.Fatal("expected no file")
	}
	if _, ok := services.WorkerFromContext(ctx); ok {
		t.Fatal("expected no worker")
	}
}
