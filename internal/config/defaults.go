package config

const (
	defaultScratchRoot       = "~/.local/share/squeeze/scratch"
	defaultLogFile           = "~/.local/share/squeeze/logs/squeeze.log"
	defaultReportFile        = "~/.local/share/squeeze/reports/report.csv"
	defaultHistoryDB         = "~/.local/share/squeeze/history.db"
	defaultEncoderBinary     = "HandBrakeCLI"
	defaultMinOutputBytes    = 10 * 1024 * 1024
	defaultOutputSuffix      = "_optimized"
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 5
	defaultMinSourceBytes    = 100 * 1024 * 1024
	defaultWorkers           = 1
	defaultSMTPPort          = 25
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

func defaultExtensions() []string {
	return []string{".mkv", ".mp4", ".avi", ".m4v", ".mov"}
}

func defaultProfile() map[string]any {
	return map[string]any{
		"encoder":            "x265",
		"quality":            int64(22),
		"peak_framerate":     true,
		"audio_encoders":     []any{"copy:ac3", "av_aac"},
		"subtitle_languages": "eng",
		"crop":               "auto",
		"decomb":             false,
		"denoise":            "off",
		"chapter_markers":    true,
		"container":          "av_mkv",
		"align_av":           true,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchRoot: defaultScratchRoot,
			LogFile:     defaultLogFile,
			ReportFile:  defaultReportFile,
			HistoryDB:   defaultHistoryDB,
		},
		Encoder: Encoder{
			Binary:         defaultEncoderBinary,
			Profile:        defaultProfile(),
			MinOutputBytes: defaultMinOutputBytes,
			OutputSuffix:   defaultOutputSuffix,
		},
		Processing: Processing{
			MaxRetries:        defaultMaxRetries,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			SkipExisting:      true,
			MinSourceBytes:    defaultMinSourceBytes,
			Extensions:        defaultExtensions(),
			Workers:           defaultWorkers,
		},
		Notifications: Notifications{
			SMTPPort: defaultSMTPPort,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
