package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// SamePathFold reports whether two paths name the same file on a
// case-insensitive filesystem, using Unicode case folding.
func SamePathFold(a, b string) bool {
	a = filepath.Clean(a)
	b = filepath.Clean(b)
	if a == b {
		return true
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// ReplaceExt swaps the extension of path for ext (given without a dot).
func ReplaceExt(path, ext string) string {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	return stem + "." + strings.TrimPrefix(ext, ".")
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// UniquePath returns path when nothing exists there yet, otherwise the first
// "<stem>.<n><ext>" sibling that is free.
func UniquePath(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return path, nil
	} else if err != nil {
		return "", err
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; n < 10000; n++ {
		candidate := fmt.Sprintf("%s.%d%s", stem, n, ext)
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free name for %s", path)
}

// MirrorPath maps path into root, keeping its directory structure. Relative
// paths and absolute paths under base keep their relative layout; other
// absolute paths are re-rooted with the volume and leading separator removed.
func MirrorPath(root, base, path string) string {
	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) {
		if base != "" {
			if rel, err := filepath.Rel(base, cleaned); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return filepath.Join(root, rel)
			}
		}
		trimmed := strings.TrimPrefix(cleaned, filepath.VolumeName(cleaned))
		return filepath.Join(root, strings.TrimLeft(trimmed, string(filepath.Separator)))
	}
	for strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		cleaned = strings.TrimPrefix(cleaned, ".."+string(filepath.Separator))
	}
	return filepath.Join(root, cleaned)
}
