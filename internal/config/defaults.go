package config

const (
	defaultBitDepth            = 16
	defaultSampleRate          = 44100
	defaultAutoMonoThresholdDB = -95.5
	defaultExtension           = "wav"
	defaultBackupDir           = "_backup"
	defaultWorkers             = 1
	defaultLogFormat           = "console"
	defaultSoxBinary           = "sox"
	defaultInspectTimeout      = 120
	defaultConvertTimeout      = 600

	// MaxVerbosity is the highest meaningful -v count.
	MaxVerbosity = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Target: Target{
			BitDepth:            defaultBitDepth,
			SampleRate:          defaultSampleRate,
			AutoMonoThresholdDB: defaultAutoMonoThresholdDB,
		},
		Run: Run{
			Mode:         ModeConvert,
			Extension:    defaultExtension,
			BackupDir:    defaultBackupDir,
			Spectrograms: true,
			Workers:      defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
		},
		Tools: Tools{
			Sox:            defaultSoxBinary,
			InspectTimeout: defaultInspectTimeout,
			ConvertTimeout: defaultConvertTimeout,
		},
		Inspect: Inspect{
			NativeHeaders: true,
		},
	}
}
