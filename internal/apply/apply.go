package apply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"slimsamples/internal/config"
	"slimsamples/internal/fileutil"
	"slimsamples/internal/logging"
	"slimsamples/internal/plan"
	"slimsamples/internal/services"
)

// Outcome is the terminal state of one file.
type Outcome string

const (
	OutcomeSkipped      Outcome = "skipped"
	OutcomeListed       Outcome = "listed"
	OutcomeDryRun       Outcome = "dry-run"
	OutcomeSucceeded    Outcome = "succeeded"
	OutcomeFailed       Outcome = "failed"
	OutcomeInconsistent Outcome = "inconsistent"
)

// BackupRecord relates an original file to its location in the backup tree.
type BackupRecord struct {
	Original string
	Backup   string
}

// Converter runs sox for the orchestrator.
type Converter interface {
	Binary() string
	Convert(ctx context.Context, args []string) error
	Spectrogram(ctx context.Context, input, output, title string) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBaseDir sets the directory relative paths are mirrored from.
func WithBaseDir(dir string) Option {
	return func(o *Orchestrator) {
		if dir != "" {
			o.baseDir = dir
		}
	}
}

// Orchestrator applies plans.
type Orchestrator struct {
	conv         Converter
	backupDir    string
	baseDir      string
	spectrograms bool
	logger       *slog.Logger
	tempID       func() string
	fs           fileOps
}

// fileOps is the filesystem surface used to swap a converted file in.
type fileOps struct {
	stat   func(name string) (os.FileInfo, error)
	rename func(oldpath, newpath string) error
	remove func(name string) error
}

var osFileOps = fileOps{stat: os.Stat, rename: os.Rename, remove: os.Remove}

// New constructs an orchestrator for the run settings in cfg.
func New(conv Converter, cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	if conv == nil {
		return nil, errors.New("apply: converter required")
	}
	if cfg == nil {
		return nil, errors.New("apply: config required")
	}
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("apply: working directory: %w", err)
	}
	o := &Orchestrator{
		conv:         conv,
		backupDir:    cfg.Run.BackupDir,
		baseDir:      base,
		spectrograms: cfg.Run.Spectrograms,
		logger:       logging.NewNop(),
		tempID:       func() string { return uuid.NewString()[:8] },
		fs:           osFileOps,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// BackupPath returns where the original at path is mirrored in the backup
// tree, before any collision suffix is applied.
func (o *Orchestrator) BackupPath(path string) string {
	return fileutil.MirrorPath(o.backupDir, o.baseDir, path)
}

// Apply executes p according to mode.
func (o *Orchestrator) Apply(ctx context.Context, p plan.Plan, mode config.Mode) (Outcome, BackupRecord, error) {
	if !p.RequiresConversion() {
		return OutcomeSkipped, BackupRecord{}, nil
	}
	switch mode {
	case config.ModeList:
		return OutcomeListed, BackupRecord{}, nil
	case config.ModeDryRun:
		return OutcomeDryRun, BackupRecord{}, nil
	}
	if err := ctx.Err(); err != nil {
		return OutcomeFailed, BackupRecord{}, err
	}

	logger := logging.WithContext(ctx, o.logger)
	started := time.Now()
	record := BackupRecord{Original: p.SourcePath}
	backup, err := o.prepareBackup(p.SourcePath)
	if err != nil {
		return OutcomeFailed, record, err
	}
	record.Backup = backup

	var outcome Outcome
	if fileutil.SamePathFold(p.SourcePath, p.DestPath) {
		outcome, err = o.applyInPlace(ctx, p, backup)
	} else {
		outcome, err = o.applyAlongside(ctx, p, backup)
	}
	if outcome == OutcomeFailed {
		record.Backup = ""
		return outcome, record, err
	}
	if err != nil {
		return outcome, record, err
	}

	logger.Info("sample converted",
		logging.String("destination", p.DestPath),
		logging.String("backup", backup),
		logging.Duration("elapsed", time.Since(started)),
	)
	if o.spectrograms {
		o.renderSpectrograms(ctx, logger, p, backup)
	}
	return OutcomeSucceeded, record, nil
}

// Commands lists the command lines a convert run would execute for p, in
// order, as shell equivalents. Nothing is created; the temp name is freshly
// generated, so a later run picks a different one.
func (o *Orchestrator) Commands(p plan.Plan) [][]string {
	if !p.RequiresConversion() {
		return nil
	}
	backup := o.BackupPath(p.SourcePath)
	if unique, err := fileutil.UniquePath(backup); err == nil {
		backup = unique
	}
	sox := o.conv.Binary()
	mkdir := []string{"mkdir", "-p", filepath.Dir(backup)}
	if fileutil.SamePathFold(p.SourcePath, p.DestPath) {
		temp := o.tempPath(p.DestPath)
		return [][]string{
			mkdir,
			{"cp", p.SourcePath, backup},
			append([]string{sox}, plan.ArgsTo(p, temp)...),
			{"mv", temp, p.DestPath},
		}
	}
	return [][]string{
		mkdir,
		append([]string{sox}, plan.Args(p)...),
		{"mv", p.SourcePath, backup},
	}
}

func (o *Orchestrator) prepareBackup(src string) (string, error) {
	mirrored := o.BackupPath(src)
	if err := os.MkdirAll(filepath.Dir(mirrored), 0o755); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "apply", "create backup directory", filepath.Dir(mirrored), err)
	}
	backup, err := fileutil.UniquePath(mirrored)
	if err != nil {
		return "", services.Wrap(services.ErrFilesystem, "apply", "reserve backup path", mirrored, err)
	}
	return backup, nil
}

// applyInPlace handles a destination that shares the source name.
func (o *Orchestrator) applyInPlace(ctx context.Context, p plan.Plan, backup string) (Outcome, error) {
	if err := fileutil.CopyFileVerified(p.SourcePath, backup); err != nil {
		return OutcomeFailed, services.Wrap(services.ErrFilesystem, "apply", "copy original to backup", backup, err)
	}

	temp := o.tempPath(p.DestPath)
	if err := o.conv.Convert(ctx, plan.ArgsTo(p, temp)); err != nil {
		_ = os.Remove(temp)
		_ = os.Remove(backup)
		return OutcomeFailed, services.Wrap(services.ErrConversion, "apply", "convert", p.SourcePath, err)
	}

	// On case-insensitive filesystems a case-only rename targets the
	// original's own directory entry.
	aliased := false
	if p.SourcePath != p.DestPath {
		srcInfo, srcErr := o.fs.stat(p.SourcePath)
		destInfo, destErr := o.fs.stat(p.DestPath)
		aliased = srcErr == nil && destErr == nil && os.SameFile(srcInfo, destInfo)
	}
	if err := o.fs.rename(temp, p.DestPath); err != nil {
		_ = o.fs.remove(temp)
		return OutcomeInconsistent, services.Wrap(services.ErrFilesystem, "apply", "replace original", p.DestPath, err)
	}
	if p.SourcePath == p.DestPath || aliased {
		return OutcomeSucceeded, nil
	}
	// Distinct entries: the old-case original is already safe in the backup.
	oldInfo, err := o.fs.stat(p.SourcePath)
	if err != nil {
		return OutcomeSucceeded, nil
	}
	if destInfo, err := o.fs.stat(p.DestPath); err == nil && os.SameFile(oldInfo, destInfo) {
		return OutcomeSucceeded, nil
	}
	if err := o.fs.remove(p.SourcePath); err != nil {
		return OutcomeInconsistent, services.Wrap(services.ErrFilesystem, "apply", "remove original", p.SourcePath, err)
	}
	return OutcomeSucceeded, nil
}

// applyAlongside handles a destination with a different name.
func (o *Orchestrator) applyAlongside(ctx context.Context, p plan.Plan, backup string) (Outcome, error) {
	if _, err := os.Lstat(p.DestPath); err == nil {
		return OutcomeFailed, services.Wrap(services.ErrConversion, "apply", "convert", "destination already exists: "+p.DestPath, nil)
	}
	if err := o.conv.Convert(ctx, plan.Args(p)); err != nil {
		_ = os.Remove(p.DestPath)
		return OutcomeFailed, services.Wrap(services.ErrConversion, "apply", "convert", p.SourcePath, err)
	}
	if err := fileutil.MoveFile(p.SourcePath, backup); err != nil {
		return OutcomeInconsistent, services.Wrap(services.ErrFilesystem, "apply", "move original to backup", backup, err)
	}
	return OutcomeSucceeded, nil
}

func (o *Orchestrator) tempPath(dest string) string {
	return filepath.Join(filepath.Dir(dest), fileutil.Stem(dest)+"."+o.tempID()+TempSuffix)
}

// TempSuffix marks in-flight conversion outputs.
const TempSuffix = ".tmp." + config.CanonicalExtension

// IsTemp reports whether path is an in-flight conversion output.
func IsTemp(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), TempSuffix)
}

func (o *Orchestrator) renderSpectrograms(ctx context.Context, logger *slog.Logger, p plan.Plan, backup string) {
	dir := filepath.Dir(backup)
	stem := fileutil.Stem(backup)
	title := filepath.Base(p.SourcePath)
	images := []struct {
		input  string
		output string
	}{
		{backup, filepath.Join(dir, stem+".old.png")},
		{p.DestPath, filepath.Join(dir, stem+".new.png")},
	}
	for _, img := range images {
		if err := o.conv.Spectrogram(ctx, img.input, img.output, title); err != nil {
			logger.Warn("spectrogram failed",
				logging.String("image", img.output),
				logging.Error(err),
			)
		}
	}
}
