package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Mode selects what a run does with the computed plans.
type Mode string

const (
	// ModeConvert applies plans: converts, replaces and backs up originals.
	ModeConvert Mode = "convert"
	// ModeDryRun reports files that would change and the commands that would run.
	ModeDryRun Mode = "dry-run"
	// ModeList reports every file, changed or not, without touching anything.
	ModeList Mode = "list"
)

// CanonicalExtension is the container every converted sample ends up in.
const CanonicalExtension = "wav"

// Target holds the constraints the planner compares sample properties against.
// Zero minimums and a zero channel count mean "unset".
type Target struct {
	BitDepth            int     `toml:"bit_depth"`
	MinimumBitDepth     int     `toml:"minimum_bit_depth"`
	SampleRate          int     `toml:"sample_rate"`
	MinimumSampleRate   int     `toml:"minimum_sample_rate"`
	Channels            int     `toml:"channels"`
	AutoMono            bool    `toml:"auto_mono"`
	AutoMonoThresholdDB float64 `toml:"auto_mono_threshold_db"`
	PreNormalize        bool    `toml:"pre_normalize"`
}

// Run contains batch behaviour settings.
type Run struct {
	Mode         Mode   `toml:"mode"`
	Extension    string `toml:"extension"`
	BackupDir    string `toml:"backup_dir"`
	Spectrograms bool   `toml:"spectrograms"`
	Workers      int    `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	File      string `toml:"file"`
	Format    string `toml:"format"`
	Verbosity int    `toml:"verbosity"`
}

// Tools configures the external audio tool.
type Tools struct {
	Sox            string `toml:"sox"`
	InspectTimeout int    `toml:"inspect_timeout"`
	ConvertTimeout int    `toml:"convert_timeout"`
}

// Inspect configures sample inspection.
type Inspect struct {
	// NativeHeaders reads WAV and AIFF headers in-process instead of asking sox.
	NativeHeaders bool `toml:"native_headers"`
}

// Journal configures the optional SQLite run journal.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for a slimsamples run.
//
// Configuration sections:
//   - Target: planner constraints (bit-depth, sample-rate, channels, auto-mono)
//   - Run: mode, source extension, backup directory, spectrograms, workers
//   - Logging: log file, format and verbosity
//   - Tools: sox binary and subprocess timeouts
//   - Inspect: native header inspection toggle
//   - Journal: optional run journal
type Config struct {
	Target  Target  `toml:"target"`
	Run     Run     `toml:"run"`
	Logging Logging `toml:"logging"`
	Tools   Tools   `toml:"tools"`
	Inspect Inspect `toml:"inspect"`
	Journal Journal `toml:"journal"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/slimsamples/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults are returned and exists is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, configError("parse config %s: %v", resolvedPath, err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates the configuration. Call it again after
// mutating a loaded Config (for example when applying command line flags).
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, configError("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("slimsamples.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// InspectTimeout bounds each read-only sox invocation.
func (c *Config) InspectTimeout() time.Duration {
	return time.Duration(c.Tools.InspectTimeout) * time.Second
}

// ConvertTimeout bounds each conversion.
func (c *Config) ConvertTimeout() time.Duration {
	return time.Duration(c.Tools.ConvertTimeout) * time.Second
}

// JournalPath returns the journal database location.
func (c *Config) JournalPath() string {
	if strings.TrimSpace(c.Journal.Path) != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Run.BackupDir, "slimsamples.db")
}

// LockPath returns the lock file guarding the backup tree during conversion.
func (c *Config) LockPath() string {
	return filepath.Join(c.Run.BackupDir, ".slimsamples.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
