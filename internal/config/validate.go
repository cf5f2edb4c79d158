package config

import (
	"fmt"

	"slimsamples/internal/services"
)

// ValidBitDepth reports whether bits is an accepted bit-depth threshold.
func ValidBitDepth(bits int) bool {
	switch bits {
	case 8, 16, 24, 32:
		return true
	default:
		return false
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTarget(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateTools()
}

func (c *Config) validateTarget() error {
	t := c.Target
	if !ValidBitDepth(t.BitDepth) {
		return configError("target.bit_depth must be one of 8, 16, 24, 32 (got %d)", t.BitDepth)
	}
	if t.MinimumBitDepth != 0 {
		if !ValidBitDepth(t.MinimumBitDepth) {
			return configError("target.minimum_bit_depth must be one of 8, 16, 24, 32 (got %d)", t.MinimumBitDepth)
		}
	}
	if t.SampleRate <= 0 {
		return configError("target.sample_rate must be positive (got %d)", t.SampleRate)
	}
	if t.MinimumSampleRate < 0 {
		return configError("target.minimum_sample_rate must be positive (got %d)", t.MinimumSampleRate)
	}
	if t.Channels < 0 {
		return configError("target.channels must not be negative (got %d)", t.Channels)
	}
	if t.AutoMonoThresholdDB > 0 {
		return configError("target.auto_mono_threshold_db must be negative or zero (got %g)", t.AutoMonoThresholdDB)
	}
	return nil
}

func (c *Config) validateRun() error {
	switch c.Run.Mode {
	case ModeConvert, ModeDryRun, ModeList:
	default:
		return configError("run.mode must be convert, dry-run or list (got %q)", c.Run.Mode)
	}
	if c.Run.Workers < 1 {
		return configError("run.workers must be at least 1 (got %d)", c.Run.Workers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return configError("logging.format must be console or json (got %q)", c.Logging.Format)
	}
}

func (c *Config) validateTools() error {
	if c.Tools.InspectTimeout <= 0 {
		return configError("tools.inspect_timeout must be positive (seconds)")
	}
	if c.Tools.ConvertTimeout <= 0 {
		return configError("tools.convert_timeout must be positive (seconds)")
	}
	return nil
}

func configError(format string, args ...any) error {
	return services.Wrap(services.ErrConfiguration, "config", "", fmt.Sprintf(format, args...), nil)
}
