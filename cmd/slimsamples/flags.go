package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"slimsamples/internal/config"
)

type options struct {
	configPath   string
	extension    string
	bitDepth     int
	minBitDepth  int
	sampleRate   int
	minRate      int
	channels     int
	autoMono     bool
	threshold    float64
	preNormalize bool
	noSpectro    bool
	backupDir    string
	list         bool
	dryRun       bool
	logFile      string
	verbosity    int
	workers      int
	journal      bool
	review       bool
	initConfig   bool
	soxBinary    string
	timeout      time.Duration
}

func bindFlags(flags *pflag.FlagSet, o *options) {
	flags.StringVar(&o.configPath, "config", "", "Configuration file path")
	flags.StringVarP(&o.extension, "extension", "x", "wav", "Source extension to select in directories")
	flags.IntVarP(&o.bitDepth, "bits", "b", 0, "Target bit-depth (8, 16 or 24)")
	flags.IntVarP(&o.minBitDepth, "min-bits", "B", 0, "Minimum bit-depth (8, 16 or 24)")
	flags.IntVarP(&o.sampleRate, "sample-rate", "s", 0, "Target sample rate in Hz")
	flags.IntVarP(&o.sampleRate, "rate", "r", 0, "Alias for --sample-rate")
	flags.IntVarP(&o.minRate, "min-rate", "R", 0, "Minimum sample rate in Hz")
	flags.IntVarP(&o.channels, "channels", "c", 0, "Target channel count (1 or 2)")
	flags.BoolVarP(&o.autoMono, "auto-mono", "a", false, "Mix effectively mono stereo files down to mono")
	flags.Float64VarP(&o.threshold, "auto-mono-threshold", "A", 0, "Auto-mono threshold in dB (negative, implies -a)")
	flags.BoolVarP(&o.preNormalize, "pre-normalize", "p", false, "Normalize before reducing bit-depth")
	flags.BoolVarP(&o.noSpectro, "no-spectrograms", "S", false, "Do not render spectrograms")
	flags.StringVarP(&o.backupDir, "backup-dir", "d", "", "Backup directory for originals")
	flags.BoolVarP(&o.list, "list", "l", false, "List every file and its plan without changing anything")
	flags.BoolVarP(&o.dryRun, "dry-run", "n", false, "Show files that would change and the sox commands")
	flags.StringVarP(&o.logFile, "log-file", "o", "", "Append log output to FILE")
	flags.CountVarP(&o.verbosity, "verbose", "v", "Increase verbosity (repeatable)")
	flags.IntVarP(&o.workers, "jobs", "j", 0, "Number of files processed in parallel")
	flags.BoolVar(&o.journal, "journal", false, "Record outcomes in the run journal")
	flags.BoolVar(&o.review, "review", false, "List journal entries left inconsistent and exit")
	flags.BoolVar(&o.initConfig, "init-config", false, "Write a sample configuration file and exit")
	flags.StringVar(&o.soxBinary, "sox", "", "Path to the sox binary")
	flags.DurationVar(&o.timeout, "timeout", 0, "Timeout for each conversion (e.g. 90s, 10m)")
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}

func cliBitDepth(name string, value int) error {
	switch value {
	case 8, 16, 24:
		return nil
	default:
		return usageError("invalid %s value %d: must be 8, 16 or 24", name, value)
	}
}

// applyFlags layers explicitly set flags over cfg. Ignored values are
// returned as notes for the caller to log once logging is configured.
func applyFlags(flags *pflag.FlagSet, o *options, cfg *config.Config) ([]string, error) {
	var notes []string
	changed := flags.Changed

	if changed("extension") {
		cfg.Run.Extension = o.extension
	}
	if changed("bits") {
		if err := cliBitDepth("-b", o.bitDepth); err != nil {
			return nil, err
		}
		cfg.Target.BitDepth = o.bitDepth
	}
	if changed("min-bits") {
		if err := cliBitDepth("-B", o.minBitDepth); err != nil {
			return nil, err
		}
		cfg.Target.MinimumBitDepth = o.minBitDepth
	}
	if changed("sample-rate") || changed("rate") {
		if o.sampleRate <= 0 {
			return nil, usageError("invalid sample rate %d: must be a positive integer", o.sampleRate)
		}
		cfg.Target.SampleRate = o.sampleRate
	}
	if changed("min-rate") {
		if o.minRate <= 0 {
			return nil, usageError("invalid -R value %d: must be a positive integer", o.minRate)
		}
		cfg.Target.MinimumSampleRate = o.minRate
	}
	if changed("channels") {
		switch o.channels {
		case 1, 2:
			cfg.Target.Channels = o.channels
		default:
			notes = append(notes, fmt.Sprintf("ignoring -c %d: only 1 or 2 channels are supported", o.channels))
		}
	}
	if changed("auto-mono") {
		cfg.Target.AutoMono = o.autoMono
	}
	if changed("auto-mono-threshold") {
		if math.IsNaN(o.threshold) || o.threshold >= 0 {
			return nil, usageError("invalid -A value %g: must be negative", o.threshold)
		}
		cfg.Target.AutoMonoThresholdDB = o.threshold
		cfg.Target.AutoMono = true
	}
	if changed("pre-normalize") {
		cfg.Target.PreNormalize = o.preNormalize
	}
	if changed("no-spectrograms") {
		cfg.Run.Spectrograms = !o.noSpectro
	}
	if changed("backup-dir") {
		if strings.TrimSpace(o.backupDir) == "" {
			return nil, usageError("-d requires a directory")
		}
		cfg.Run.BackupDir = o.backupDir
	}
	switch {
	case o.list:
		cfg.Run.Mode = config.ModeList
	case o.dryRun:
		cfg.Run.Mode = config.ModeDryRun
	}
	if changed("log-file") {
		cfg.Logging.File = o.logFile
	}
	if changed("verbose") {
		cfg.Logging.Verbosity = o.verbosity
	}
	if changed("jobs") {
		if o.workers < 1 {
			return nil, usageError("invalid -j value %d: must be at least 1", o.workers)
		}
		cfg.Run.Workers = o.workers
	}
	if changed("journal") {
		cfg.Journal.Enabled = o.journal
	}
	if changed("sox") {
		cfg.Tools.Sox = o.soxBinary
	}
	if changed("timeout") {
		if o.timeout <= 0 {
			return nil, usageError("invalid --timeout value %s: must be positive", o.timeout)
		}
		cfg.Tools.ConvertTimeout = int(math.Ceil(o.timeout.Seconds()))
	}
	return notes, nil
}
