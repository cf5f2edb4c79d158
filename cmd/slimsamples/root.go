package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"slimsamples/internal/apply"
	"slimsamples/internal/batch"
	"slimsamples/internal/config"
	"slimsamples/internal/journal"
	"slimsamples/internal/logging"
	"slimsamples/internal/media/sox"
	"slimsamples/internal/preflight"
	"slimsamples/internal/sample"
	"slimsamples/internal/services"
)

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "slimsamples [flags] PATH...",
		Short: "Reduce audio samples to a target bit-depth, sample rate and channel count",
		Long: `slimsamples inspects WAV and AIFF samples and converts the ones that exceed
the target properties with sox. Originals are kept under the backup
directory, mirrored by their location relative to the working directory.

Flags must precede the first PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	rootCmd.Flags().SetInterspersed(false)
	bindFlags(rootCmd.Flags(), opts)
	return rootCmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	if opts.initConfig {
		return initConfig(cmd.OutOrStdout(), opts.configPath)
	}

	cfg, notes, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if opts.review {
		return runReview(cmd.Context(), cmd.OutOrStdout(), cfg)
	}

	if len(args) == 0 {
		return usageError("at least one FILE or DIRECTORY is required")
	}
	if err := checkArgumentOrder(args); err != nil {
		return err
	}

	logger, closer, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	for _, note := range notes {
		logger.Debug(note)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := preflight.Run(ctx, cfg); err != nil {
		return err
	}

	if cfg.Run.Mode == config.ModeConvert {
		lock, err := preflight.AcquireRunLock(cfg.LockPath())
		if err != nil {
			return err
		}
		defer lock.Release()
		logger.Debug("run lock acquired", logging.String("lock", lock.Path()))
	}

	runner, cleanup, err := buildRunner(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("run started",
		logging.String(logging.FieldRunID, runner.RunID()),
		logging.String("mode", string(cfg.Run.Mode)),
		logging.Int("paths", len(args)),
		logging.Int("workers", cfg.Run.Workers),
	)

	totals, err := runner.Run(ctx, args)
	printTotals(cmd.ErrOrStderr(), totals)
	if err != nil {
		return err
	}
	logger.Info("run finished",
		logging.String(logging.FieldRunID, runner.RunID()),
		logging.Int("files", totals.Total()),
		logging.Int("problems", totals.Problems()),
	)
	return nil
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, []string, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	notes, err := applyFlags(cmd.Flags(), opts, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, nil, err
	}
	return cfg, notes, nil
}

// buildRunner wires sox, inspection, apply and the optional journal into a
// batch runner. The returned cleanup closes the journal.
func buildRunner(cfg *config.Config, logger *slog.Logger, out io.Writer) (*batch.Runner, func(), error) {
	client, err := sox.New(cfg.Tools.Sox, sox.WithTimeouts(cfg.InspectTimeout(), cfg.ConvertTimeout()))
	if err != nil {
		return nil, nil, err
	}

	inspectOpts := []sample.InspectorOption{
		sample.WithLogger(logging.NewComponentLogger(logger, "inspect")),
	}
	if !cfg.Inspect.NativeHeaders {
		inspectOpts = append(inspectOpts, sample.WithHeaderReader(nil))
	}
	inspector := sample.NewInspector(client, inspectOpts...)

	orchestrator, err := apply.New(client, cfg, apply.WithLogger(logging.NewComponentLogger(logger, "apply")))
	if err != nil {
		return nil, nil, err
	}

	runnerOpts := []batch.Option{
		batch.WithOutput(out),
		batch.WithLogger(logging.NewComponentLogger(logger, "batch")),
		batch.WithRunID(uuid.NewString()),
	}
	cleanup := func() {}
	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg.JournalPath())
		if err != nil {
			return nil, nil, err
		}
		runnerOpts = append(runnerOpts, batch.WithRecorder(store))
		logger.Debug("journal opened", logging.String("path", store.Path()))
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Warn("journal close failed", logging.Error(err))
			}
		}
	}

	runner, err := batch.New(cfg, inspector, orchestrator, runnerOpts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return runner, cleanup, nil
}

// checkArgumentOrder rejects flags placed after the first path. Flag
// parsing stops at the first positional argument, so a later "-x" arrives
// here as a path; a real file with that name is still accepted.
func checkArgumentOrder(args []string) error {
	for _, arg := range args[1:] {
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}
		if _, err := os.Lstat(arg); err == nil {
			continue
		}
		return usageError("option %q must come before the first path", arg)
	}
	return nil
}

func initConfig(out io.Writer, path string) error {
	target := path
	if target == "" {
		var err error
		target, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	} else {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return err
		}
		target = expanded
	}
	if _, err := os.Stat(target); err == nil {
		return services.Wrap(services.ErrConfiguration, "cli", "init config",
			fmt.Sprintf("config file already exists at %s", target), nil)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := config.CreateSample(target); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
	return nil
}
