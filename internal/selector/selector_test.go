package selector_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"slimsamples/internal/selector"
	"slimsamples/internal/services"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestSelectWalksDirectories(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	writeFiles(t, root,
		"kit/b.wav",
		"kit/A.WAV",
		"kit/notes.txt",
		"kit/sub/c.wav",
		"kit/c.1a2b3c4d.tmp.wav",
		"_backup/kit/b.wav",
	)

	sel := selector.Select([]string{"."}, "wav", "_backup")
	want := []string{"kit/A.WAV", "kit/b.wav", "kit/sub/c.wav"}
	if !reflect.DeepEqual(sel.Files, want) {
		t.Fatalf("unexpected files %v", sel.Files)
	}
	if len(sel.Errors) != 0 {
		t.Fatalf("unexpected errors %v", sel.Errors)
	}
}

func TestSelectExtensionFilterIgnoresCase(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.aif", "b.AIF", "c.wav")
	sel := selector.Select([]string{root}, ".AIF", "")
	want := []string{filepath.Join(root, "a.aif"), filepath.Join(root, "b.AIF")}
	if !reflect.DeepEqual(sel.Files, want) {
		t.Fatalf("unexpected files %v", sel.Files)
	}
}

func TestSelectTakesExplicitFilesAsGiven(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "loop.flac", "kit/z.wav")
	explicit := filepath.Join(root, "loop.flac")
	sel := selector.Select([]string{explicit, filepath.Join(root, "kit"), explicit}, "wav", "")
	want := []string{explicit, filepath.Join(root, "kit", "z.wav")}
	if !reflect.DeepEqual(sel.Files, want) {
		t.Fatalf("unexpected files %v", sel.Files)
	}
}

func TestSelectReportsMissingPaths(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.wav")
	missing := filepath.Join(root, "nope")
	sel := selector.Select([]string{missing, filepath.Join(root, "a.wav")}, "wav", "")
	if len(sel.Files) != 1 {
		t.Fatalf("expected selection to continue, got %v", sel.Files)
	}
	if len(sel.Errors) != 1 || sel.Errors[0].Path != missing {
		t.Fatalf("unexpected errors %v", sel.Errors)
	}
	if !errors.Is(sel.Errors[0], services.ErrInspection) {
		t.Fatalf("expected ErrInspection, got %v", sel.Errors[0])
	}
}
