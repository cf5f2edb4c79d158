package sox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"slimsamples/internal/services"
)

// Output captures the streams of a finished sox invocation.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Output, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeouts overrides the inspection and conversion timeouts. Non-positive
// values keep the defaults.
func WithTimeouts(inspect, convert time.Duration) Option {
	return func(c *Client) {
		if inspect > 0 {
			c.inspectTimeout = inspect
		}
		if convert > 0 {
			c.convertTimeout = convert
		}
	}
}

const (
	defaultInspectTimeout = 2 * time.Minute
	defaultConvertTimeout = 10 * time.Minute
)

// Client wraps SoX CLI interactions.
type Client struct {
	binary         string
	exec           Executor
	inspectTimeout time.Duration
	convertTimeout time.Duration
}

// New constructs a SoX client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("sox binary required")
	}
	client := &Client{
		binary:         binary,
		exec:           commandExecutor{},
		inspectTimeout: defaultInspectTimeout,
		convertTimeout: defaultConvertTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the configured sox executable.
func (c *Client) Binary() string {
	return c.binary
}

// Info queries the nominal properties of path with `sox --i`.
func (c *Client) Info(ctx context.Context, path string) (Info, error) {
	out, err := c.run(ctx, c.inspectTimeout, "info", []string{"--i", "--", path})
	if err != nil {
		return Info{}, err
	}
	info, err := parseInfo(string(out.Stdout))
	if err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "sox", "info", path, err)
	}
	return info, nil
}

// Stats runs the stats effect over path, optionally preceded by effects.
func (c *Client) Stats(ctx context.Context, path string, effects ...string) (Stats, error) {
	args := []string{path, "-n"}
	args = append(args, effects...)
	args = append(args, "stats")
	out, err := c.run(ctx, c.inspectTimeout, "stats", args)
	if err != nil {
		return Stats{}, err
	}
	// sox prints effect reports on stderr.
	stats, err := parseStats(string(out.Stderr))
	if err != nil {
		return Stats{}, services.Wrap(services.ErrExternalTool, "sox", "stats", path, err)
	}
	return stats, nil
}

// StereoPeakDiff measures the peak level in dB of channel 1 summed with the
// phase-inverted channel 2. Identical channels yield -Inf.
func (c *Client) StereoPeakDiff(ctx context.Context, path string) (float64, error) {
	stats, err := c.Stats(ctx, path, "remix", "1,2i")
	if err != nil {
		return 0, err
	}
	return stats.PeakLevelDB, nil
}

// Convert runs sox with a complete argument list built by the planner.
func (c *Client) Convert(ctx context.Context, args []string) error {
	_, err := c.run(ctx, c.convertTimeout, "convert", args)
	return err
}

// Spectrogram renders a PNG spectrogram of input into output.
func (c *Client) Spectrogram(ctx context.Context, input, output, title string) error {
	args := []string{input, "-n", "spectrogram"}
	if title = strings.TrimSpace(title); title != "" {
		args = append(args, "-t", title)
	}
	args = append(args, "-o", output)
	_, err := c.run(ctx, c.inspectTimeout, "spectrogram", args)
	return err
}

func (c *Client) run(ctx context.Context, timeout time.Duration, operation string, args []string) (Output, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, err := c.exec.Run(runCtx, c.binary, args)
	if err == nil {
		return out, nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return out, services.Wrap(services.ErrTimeout, "sox", operation, fmt.Sprintf("exceeded %s", timeout), err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("sox %s: %w", operation, ctxErr)
	}
	return out, services.Wrap(services.ErrExternalTool, "sox", operation, "", err)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (Output, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return out, fmt.Errorf("%w: %s", err, detail)
		}
		return out, err
	}
	return out, nil
}
