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

// Paths contains directory and file location configuration.
type Paths struct {
	SourceRoot  string `toml:"source_root"`
	OutputRoot  string `toml:"output_root"`
	ScratchRoot string `toml:"scratch_root"`
	LogFile     string `toml:"log_file"`
	ReportFile  string `toml:"report_file"`
	HistoryDB   string `toml:"history_db"`
}

// Encoder contains configuration for the external encoder binary.
type Encoder struct {
	Binary          string         `toml:"binary"`
	Profile         map[string]any `toml:"profile"`
	MinOutputBytes  int64          `toml:"min_output_bytes"`
	OutputSuffix    string         `toml:"output_suffix"`
	OutputExtension string         `toml:"output_extension"`
}

// Processing contains per-file retry and selection configuration.
type Processing struct {
	MaxRetries        int      `toml:"max_retries"`
	RetryDelaySeconds int      `toml:"retry_delay_seconds"`
	SkipExisting      bool     `toml:"skip_existing"`
	MinSourceBytes    int64    `toml:"min_source_bytes"`
	Extensions        []string `toml:"extensions"`
	Workers           int      `toml:"workers"`
}

// Notifications contains configuration for run-completion email.
type Notifications struct {
	Enabled     bool   `toml:"enabled"`
	SMTPHost    string `toml:"smtp_host"`
	SMTPPort    int    `toml:"smtp_port"`
	FromAddress string `toml:"from_address"`
	ToAddress   string `toml:"to_address"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Squeeze.
//
// Configuration sections by subsystem:
//   - Paths: source/output/scratch roots plus log, report, and history files
//   - Encoder: external encoder binary and its encoding profile
//   - Processing: retry budget, idempotency switch, and file selection
//   - Notifications: SMTP completion email
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Encoder       Encoder       `toml:"encoder"`
	Processing    Processing    `toml:"processing"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/squeeze/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
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
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("squeeze.toml")
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

// EnsureDirectories creates the local directories Squeeze needs before a run
// starts. The output root is deliberately excluded: it is only created after
// the source share has been verified reachable, so an unreachable share never
// leaves half-created output trees behind.
func (c *Config) EnsureDirectories() error {
	for _, file := range []string{c.Paths.LogFile, c.Paths.ReportFile, c.Paths.HistoryDB} {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", filepath.Dir(file), err)
		}
	}
	return nil
}

// RetryDelay returns the fixed delay between retry attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Processing.RetryDelaySeconds) * time.Second
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

// CreateSample writes a sample configuration file to the specified location,
// replacing any existing file. Overwrite protection is the caller's job.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
