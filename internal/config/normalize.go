package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeRun(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeTools()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeRun() error {
	c.Run.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Run.Mode))))
	if c.Run.Mode == "" {
		c.Run.Mode = ModeConvert
	}
	c.Run.Extension = NormalizeExtension(c.Run.Extension)
	if c.Run.Extension == "" {
		c.Run.Extension = defaultExtension
	}
	if strings.TrimSpace(c.Run.BackupDir) == "" {
		c.Run.BackupDir = defaultBackupDir
	}
	var err error
	if c.Run.BackupDir, err = expandPath(strings.TrimSpace(c.Run.BackupDir)); err != nil {
		return fmt.Errorf("run.backup_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.Verbosity < 0 {
		c.Logging.Verbosity = 0
	}
	if c.Logging.Verbosity > MaxVerbosity {
		c.Logging.Verbosity = MaxVerbosity
	}
}

func (c *Config) normalizeTools() {
	c.Tools.Sox = strings.TrimSpace(c.Tools.Sox)
	if c.Tools.Sox == "" {
		c.Tools.Sox = defaultSoxBinary
	}
}

func (c *Config) normalizeJournal() error {
	c.Journal.Path = strings.TrimSpace(c.Journal.Path)
	if c.Journal.Path == "" {
		return nil
	}
	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

// NormalizeExtension lower-cases an extension and strips the leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
