package sample

import (
	"context"
	"math"

	"slimsamples/internal/media/sox"
	"slimsamples/internal/services"
)

// Analyzer is the subset of the sox client used for inspection.
type Analyzer interface {
	Info(ctx context.Context, path string) (sox.Info, error)
	Stats(ctx context.Context, path string, effects ...string) (sox.Stats, error)
	StereoPeakDiff(ctx context.Context, path string) (float64, error)
}

// MonoByPeakDiff applies the auto-mono comparison: a nil difference (mono
// file) is never effectively mono, -Inf always is, anything else must be
// strictly below the threshold.
func MonoByPeakDiff(diff *float64, thresholdDB float64) bool {
	if diff == nil {
		return false
	}
	if math.IsInf(*diff, -1) {
		return true
	}
	if math.IsNaN(*diff) {
		return false
	}
	return *diff < thresholdDB
}

// EffectivelyMono applies MonoByPeakDiff to an inspected snapshot.
func EffectivelyMono(p Properties, thresholdDB float64) bool {
	if p.Channels < 2 {
		return false
	}
	return MonoByPeakDiff(p.StereoPeakDiffDB, thresholdDB)
}

// Classifier measures whether a stereo file is effectively mono.
type Classifier struct {
	analyzer Analyzer
}

// NewClassifier constructs a classifier backed by analyzer.
func NewClassifier(analyzer Analyzer) *Classifier {
	return &Classifier{analyzer: analyzer}
}

// PeakDiff measures the peak level of channel 1 minus channel 2.
func (c *Classifier) PeakDiff(ctx context.Context, path string) (float64, error) {
	diff, err := c.analyzer.StereoPeakDiff(ctx, path)
	if err != nil {
		return 0, services.Wrap(services.ErrInspection, "classify", "stereo diff", path, err)
	}
	return diff, nil
}

// IsEffectivelyMono reports whether path holds stereo content whose channels
// cancel below thresholdDB. Mono files return false.
func (c *Classifier) IsEffectivelyMono(ctx context.Context, path string, thresholdDB float64) (bool, error) {
	info, err := c.analyzer.Info(ctx, path)
	if err != nil {
		return false, services.Wrap(services.ErrInspection, "classify", "info", path, err)
	}
	if info.Channels < 2 {
		return false, nil
	}
	diff, err := c.PeakDiff(ctx, path)
	if err != nil {
		return false, err
	}
	return MonoByPeakDiff(&diff, thresholdDB), nil
}
