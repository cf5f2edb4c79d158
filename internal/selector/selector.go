// Package selector expands command line paths into the list of samples to
// process.
package selector

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"slimsamples/internal/apply"
	"slimsamples/internal/services"
)

// Selection is the result of expanding the input paths.
type Selection struct {
	// Files are in input order; files found by walking a directory are
	// sorted lexically.
	Files []string
	// Errors holds one error per path that could not be read. Each wraps
	// services.ErrInspection.
	Errors []PathError
}

// PathError records an input path that could not be selected.
type PathError struct {
	Path string
	Err  error
}

func (e PathError) Error() string { return e.Err.Error() }
func (e PathError) Unwrap() error { return e.Err }

// Select expands paths. Files given explicitly are taken as-is; directories
// are walked recursively for files whose extension equals ext, ignoring case.
// Anything under exclude and in-flight temp files are skipped.
func Select(paths []string, ext string, exclude string) Selection {
	ext = "." + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	excludeAbs := ""
	if exclude != "" {
		if abs, err := filepath.Abs(exclude); err == nil {
			excludeAbs = abs
		}
	}

	var sel Selection
	seen := make(map[string]struct{})
	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		sel.Files = append(sel.Files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			sel.Errors = append(sel.Errors, PathError{
				Path: root,
				Err:  services.Wrap(services.ErrInspection, "select", "stat", root, err),
			})
			continue
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		var found []string
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				sel.Errors = append(sel.Errors, PathError{
					Path: path,
					Err:  services.Wrap(services.ErrInspection, "select", "walk", path, err),
				})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if isExcluded(path, excludeAbs) {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if strings.ToLower(filepath.Ext(path)) != ext || apply.IsTemp(path) {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if walkErr != nil && !errors.Is(walkErr, fs.SkipDir) {
			sel.Errors = append(sel.Errors, PathError{
				Path: root,
				Err:  services.Wrap(services.ErrInspection, "select", "walk", root, walkErr),
			})
		}
		sort.Strings(found)
		for _, path := range found {
			add(path)
		}
	}
	return sel
}

func isExcluded(path, excludeAbs string) bool {
	if excludeAbs == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == excludeAbs
}
