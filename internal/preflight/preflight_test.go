package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slimsamples/internal/config"
	"slimsamples/internal/services"
	"slimsamples/internal/testsupport"
)

func stubSox(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sox")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWritableAncestor_Missing(t *testing.T) {
	root := t.TempDir()
	result := CheckWritableAncestor("backup", filepath.Join(root, "a", "b", "_backup"))
	if !result.Passed {
		t.Fatalf("expected pass via existing ancestor, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created under") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckWritableAncestor_FileInTheWay(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckWritableAncestor("backup", filepath.Join(blocker, "_backup"))
	if result.Passed {
		t.Fatal("expected failure when a file occupies the ancestor")
	}
}

func TestRun_MissingSoxIsConfigurationError(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Sox = filepath.Join(t.TempDir(), "no-such-sox")
	cfg.Run.BackupDir = t.TempDir()

	err := Run(context.Background(), &cfg)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "SoX") {
		t.Fatalf("expected SoX in error, got %v", err)
	}
}

func TestRun_PassesWithStubSox(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Sox = stubSox(t)
	cfg.Run.BackupDir = filepath.Join(t.TempDir(), "_backup")
	cfg.Journal.Enabled = true

	if err := Run(context.Background(), &cfg); err != nil {
		t.Fatalf("expected preflight to pass, got %v", err)
	}
	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected sox, backup and journal checks, got %+v", results)
	}
}

func TestRun_FindsSoxOnPath(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("sox"))
	if cfg.Tools.Sox != "sox" {
		t.Fatalf("expected bare sox binary name, got %q", cfg.Tools.Sox)
	}
	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("expected sox on PATH to pass preflight, got %v", err)
	}
}

func TestRunAll_SkipsBackupOutsideConvert(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Sox = stubSox(t)
	cfg.Run.Mode = config.ModeList
	for _, result := range RunAll(context.Background(), &cfg) {
		if result.Name == "Backup directory" {
			t.Fatal("backup directory must not be checked in list mode")
		}
	}
}

func TestAcquireRunLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "_backup", ".slimsamples.lock")
	first, err := AcquireRunLock(path)
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	if _, err := AcquireRunLock(path); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected second lock to fail with configuration error, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	again, err := AcquireRunLock(path)
	if err != nil {
		t.Fatalf("lock after release failed: %v", err)
	}
	_ = again.Release()
}
