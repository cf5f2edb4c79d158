package sample

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"slimsamples/internal/logging"
	"slimsamples/internal/media/header"
	"slimsamples/internal/services"
)

// HeaderReader decodes nominal properties without a subprocess.
type HeaderReader func(path string) (header.Info, error)

// InspectorOption configures an Inspector.
type InspectorOption func(*Inspector)

// WithHeaderReader enables native header decoding. A nil reader disables it.
func WithHeaderReader(reader HeaderReader) InspectorOption {
	return func(i *Inspector) {
		i.readHeader = reader
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) InspectorOption {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Inspector builds Properties snapshots.
type Inspector struct {
	analyzer   Analyzer
	classifier *Classifier
	readHeader HeaderReader
	logger     *slog.Logger
}

// NewInspector constructs an inspector. Native header decoding is enabled by
// default.
func NewInspector(analyzer Analyzer, opts ...InspectorOption) *Inspector {
	inspector := &Inspector{
		analyzer:   analyzer,
		classifier: NewClassifier(analyzer),
		readHeader: header.Read,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(inspector)
	}
	return inspector
}

// Inspect reads the nominal and measured properties of path. Every failure
// wraps services.ErrInspection.
func (i *Inspector) Inspect(ctx context.Context, path string) (Properties, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Properties{}, services.Wrap(services.ErrInspection, "inspect", "stat", path, err)
	}
	if stat.IsDir() {
		return Properties{}, services.Wrap(services.ErrInspection, "inspect", "stat", path, errors.New("is a directory"))
	}

	props, err := i.nominal(ctx, path)
	if err != nil {
		return Properties{}, err
	}

	stats, err := i.analyzer.Stats(ctx, path)
	if err != nil {
		return Properties{}, services.Wrap(services.ErrInspection, "inspect", "stats", path, err)
	}
	props.EffectiveBitDepth = stats.BitDepth

	if props.Channels >= 2 {
		diff, err := i.classifier.PeakDiff(ctx, path)
		if err != nil {
			return Properties{}, err
		}
		props.StereoPeakDiffDB = &diff
	}

	i.logger.Debug("sample inspected",
		logging.String(logging.FieldFile, path),
		logging.String("source", props.Source),
		logging.Int("channels", props.Channels),
		logging.Int("bit_depth", props.BitDepth),
		logging.Int("sample_rate", props.SampleRate),
		logging.String("encoding", props.Encoding.String()),
		logging.Int("effective_bit_depth", props.EffectiveBitDepth),
	)
	if props.StereoPeakDiffDB != nil {
		i.logger.Debug("stereo peak difference measured",
			logging.String(logging.FieldFile, path),
			logging.Float64("peak_diff_db", *props.StereoPeakDiffDB),
		)
	}
	return props, nil
}

func (i *Inspector) nominal(ctx context.Context, path string) (Properties, error) {
	if i.readHeader != nil {
		info, err := i.readHeader(path)
		if err == nil {
			i.logger.Debug("native header read",
				logging.String(logging.FieldFile, path),
				logging.String("container", info.Container),
			)
			return Properties{
				Path:       path,
				Channels:   info.Channels,
				BitDepth:   info.BitDepth,
				SampleRate: info.SampleRate,
				Encoding:   ParseEncoding(info.Encoding),
				Source:     SourceHeader,
			}, nil
		}
		if !errors.Is(err, header.ErrUnsupported) {
			return Properties{}, services.Wrap(services.ErrInspection, "inspect", "header", path, err)
		}
		i.logger.Debug("native header unsupported, querying sox",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
	}

	info, err := i.analyzer.Info(ctx, path)
	if err != nil {
		return Properties{}, services.Wrap(services.ErrInspection, "inspect", "info", path, err)
	}
	if info.Channels < 1 {
		return Properties{}, services.Wrap(services.ErrInspection, "inspect", "info", path, fmt.Errorf("invalid channel count %d", info.Channels))
	}
	return Properties{
		Path:       path,
		Channels:   info.Channels,
		BitDepth:   info.BitDepth,
		SampleRate: info.SampleRate,
		Encoding:   ParseEncoding(info.Encoding),
		Source:     SourceSox,
	}, nil
}
