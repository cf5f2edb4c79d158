package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"slimsamples/internal/apply"
	"slimsamples/internal/config"
	"slimsamples/internal/journal"
	"slimsamples/internal/logging"
	"slimsamples/internal/plan"
	"slimsamples/internal/sample"
	"slimsamples/internal/selector"
	"slimsamples/internal/services"
	"slimsamples/internal/summary"
)

// Inspector produces sample properties.
type Inspector interface {
	Inspect(ctx context.Context, path string) (sample.Properties, error)
}

// Applier executes plans. Commands describes what Apply would run in
// convert mode, one command line per step.
type Applier interface {
	Apply(ctx context.Context, p plan.Plan, mode config.Mode) (apply.Outcome, apply.BackupRecord, error)
	Commands(p plan.Plan) [][]string
}

// Recorder persists per-file outcomes.
type Recorder interface {
	BeginRun(ctx context.Context, runID, mode string) error
	Record(ctx context.Context, runID string, entry journal.Entry) error
}

// Result describes what happened to one file.
type Result struct {
	Path    string
	Props   sample.Properties
	Plan    plan.Plan
	Outcome Outcome
	Err     error
	Backup  apply.BackupRecord
	// Lines are written to the output in input order.
	Lines []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where summary lines are written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder enables journaling.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

// Runner processes a batch of paths. It carries everything a run needs so
// no component reads global state.
type Runner struct {
	cfg       *config.Config
	inspector Inspector
	applier   Applier
	recorder  Recorder
	out       io.Writer
	logger    *slog.Logger
	runID     string
}

// New constructs a runner.
func New(cfg *config.Config, inspector Inspector, applier Applier, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("batch: config required")
	}
	if inspector == nil || applier == nil {
		return nil, errors.New("batch: inspector and applier required")
	}
	r := &Runner{
		cfg:       cfg,
		inspector: inspector,
		applier:   applier,
		out:       io.Discard,
		logger:    logging.NewNop(),
		runID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunID returns the identifier of this run.
func (r *Runner) RunID() string {
	return r.runID
}

type job struct {
	index int
	path  string
}

type indexed struct {
	index  int
	result Result
}

// Run processes paths and returns the outcome totals. The error is non-nil
// only for setup failures and cancellation.
func (r *Runner) Run(ctx context.Context, paths []string) (Totals, error) {
	ctx = services.WithRunID(ctx, r.runID)
	logger := logging.WithContext(ctx, r.logger)
	totals := make(Totals)

	if r.recorder != nil {
		if err := r.recorder.BeginRun(ctx, r.runID, string(r.cfg.Run.Mode)); err != nil {
			return totals, services.Wrap(services.ErrFilesystem, "batch", "begin journal run", "", err)
		}
	}

	sel := selector.Select(paths, r.cfg.Run.Extension, r.cfg.Run.BackupDir)
	for _, pathErr := range sel.Errors {
		logger.Error("input path unreadable",
			logging.String(logging.FieldFile, pathErr.Path),
			logging.Error(pathErr.Err),
		)
		r.finish(ctx, totals, Result{Path: pathErr.Path, Outcome: OutcomeInspectFailed, Err: pathErr.Err})
	}
	logger.Info("batch started",
		logging.String("mode", string(r.cfg.Run.Mode)),
		logging.Int("files", len(sel.Files)),
		logging.Int("workers", r.workers()),
	)

	workers := r.workers()
	jobs := make(chan job, workers*2)
	results := make(chan indexed, workers*2)

	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			workerCtx := services.WithWorker(ctx, worker)
			if workers == 1 {
				workerCtx = ctx
			}
			for j := range jobs {
				results <- indexed{index: j.index, result: r.process(workerCtx, j.path)}
			}
		}(w)
	}

	go func() {
		defer close(jobs)
		for i, path := range sel.Files {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, path: path}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Flush in input order: hold results until every earlier index is done.
	pending := make(map[int]Result)
	next := 0
	for res := range results {
		pending[res.index] = res.result
		for {
			result, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			r.finish(ctx, totals, result)
			next++
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("batch cancelled",
			logging.Int("processed", next),
			logging.Int("remaining", len(sel.Files)-next),
		)
		return totals, err
	}
	logger.Info("batch finished",
		logging.Int("files", totals.Total()),
		logging.Int("problems", totals.Problems()),
	)
	return totals, nil
}

func (r *Runner) workers() int {
	if r.cfg.Run.Workers < 1 {
		return 1
	}
	return r.cfg.Run.Workers
}

func (r *Runner) finish(ctx context.Context, totals Totals, result Result) {
	totals.Add(result.Outcome)
	for _, line := range result.Lines {
		fmt.Fprintln(r.out, line)
	}
	r.record(ctx, result)
}

func (r *Runner) record(ctx context.Context, result Result) {
	if r.recorder == nil {
		return
	}
	switch result.Outcome {
	case OutcomeSkipped, OutcomeListed, OutcomeDryRun:
		return
	}
	entry := journal.Entry{
		Path:         result.Path,
		Backup:       result.Backup.Backup,
		Outcome:      string(result.Outcome),
		Inconsistent: result.Outcome == OutcomeInconsistent,
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}
	// Recording must outlive a cancelled run so partial work stays visible.
	if err := r.recorder.Record(context.WithoutCancel(ctx), r.runID, entry); err != nil {
		r.logger.Warn("journal record failed",
			logging.String(logging.FieldFile, result.Path),
			logging.Error(err),
		)
	}
}

func (r *Runner) process(ctx context.Context, path string) Result {
	ctx = services.WithFile(ctx, path)
	logger := logging.WithContext(ctx, r.logger)
	result := Result{Path: path}
	target := r.cfg.Target
	mode := r.cfg.Run.Mode

	props, err := r.inspector.Inspect(ctx, path)
	if err != nil {
		result.Err = err
		if errors.Is(err, services.ErrTimeout) {
			result.Outcome = OutcomeFailed
			logger.Error("inspection timed out", logging.Error(err))
		} else {
			result.Outcome = OutcomeInspectFailed
			logger.Error("inspection failed", logging.Error(err))
		}
		return result
	}
	result.Props = props

	mono := target.AutoMono && sample.EffectivelyMono(props, target.AutoMonoThresholdDB)
	p, err := plan.Build(props, target, mono)
	if err != nil {
		result.Outcome = OutcomeFor(err)
		result.Err = err
		logger.Warn("unsupported encoding, sample skipped",
			logging.String("encoding", props.Encoding.String()),
			logging.Int("bit_depth", props.BitDepth),
			logging.Error(err),
		)
		return result
	}
	result.Plan = p
	logger.Debug("plan built",
		logging.Bool("effectively_mono", mono),
		logging.Any("changes", p.Changes),
	)
	line := summary.Format(p, props, mode)

	outcome, record, err := r.applier.Apply(ctx, p, mode)
	result.Outcome = outcome
	result.Backup = record
	result.Err = err

	switch outcome {
	case OutcomeSkipped:
		logger.Debug("sample already at target")
	case OutcomeListed:
		result.Lines = []string{line}
	case OutcomeDryRun:
		result.Lines = []string{line}
		for _, command := range r.applier.Commands(p) {
			result.Lines = append(result.Lines, "  "+summary.Command(command))
		}
	case OutcomeSucceeded:
		result.Lines = []string{line}
	case OutcomeInconsistent:
		logger.Error("filesystem error after conversion, file needs review",
			logging.String("backup", record.Backup),
			logging.Error(err),
		)
	case OutcomeFailed:
		if errors.Is(err, services.ErrConversion) {
			logger.Error("conversion failed, original left untouched", logging.Error(err))
		} else {
			logger.Error("apply failed before conversion", logging.Error(err))
		}
	}
	// List mode reports unchanged files as well.
	if mode == config.ModeList && outcome == OutcomeSkipped {
		result.Lines = []string{line}
	}
	return result
}
