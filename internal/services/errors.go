package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrInspection          = errors.New("inspection error")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrConversion          = errors.New("conversion failure")
	ErrFilesystem          = errors.New("filesystem error")
	ErrExternalTool        = errors.New("external tool error")
	ErrTimeout             = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsPerFile reports whether err only affects the file being processed. Any
// other error (configuration, cancellation) aborts the batch.
func IsPerFile(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrConfiguration):
		return false
	case errors.Is(err, ErrInspection),
		errors.Is(err, ErrUnsupportedEncoding),
		errors.Is(err, ErrConversion),
		errors.Is(err, ErrFilesystem),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrExternalTool):
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
