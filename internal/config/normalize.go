package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEncoder()
	c.normalizeProcessing()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceRoot, err = expandPath(c.Paths.SourceRoot); err != nil {
		return fmt.Errorf("paths.source_root: %w", err)
	}
	if c.Paths.OutputRoot, err = expandPath(c.Paths.OutputRoot); err != nil {
		return fmt.Errorf("paths.output_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchRoot) == "" {
		c.Paths.ScratchRoot = defaultScratchRoot
	}
	if c.Paths.ScratchRoot, err = expandPath(c.Paths.ScratchRoot); err != nil {
		return fmt.Errorf("paths.scratch_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogFile) == "" {
		c.Paths.LogFile = defaultLogFile
	}
	if c.Paths.LogFile, err = expandPath(c.Paths.LogFile); err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportFile) == "" {
		c.Paths.ReportFile = defaultReportFile
	}
	if c.Paths.ReportFile, err = expandPath(c.Paths.ReportFile); err != nil {
		return fmt.Errorf("paths.report_file: %w", err)
	}
	// An empty history_db disables run history entirely.
	if strings.TrimSpace(c.Paths.HistoryDB) != "" {
		if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
			return fmt.Errorf("paths.history_db: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	if c.Encoder.Binary == "" {
		c.Encoder.Binary = defaultEncoderBinary
	}
	if c.Encoder.MinOutputBytes <= 0 {
		c.Encoder.MinOutputBytes = defaultMinOutputBytes
	}
	if strings.TrimSpace(c.Encoder.OutputSuffix) == "" {
		c.Encoder.OutputSuffix = defaultOutputSuffix
	}
	ext := strings.TrimSpace(c.Encoder.OutputExtension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Encoder.OutputExtension = ext
	if c.Encoder.Profile == nil {
		c.Encoder.Profile = defaultProfile()
	}
}

func (c *Config) normalizeProcessing() {
	if c.Processing.MaxRetries <= 0 {
		c.Processing.MaxRetries = defaultMaxRetries
	}
	if c.Processing.RetryDelaySeconds < 0 {
		c.Processing.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	if c.Processing.Workers <= 0 {
		c.Processing.Workers = defaultWorkers
	}
	if len(c.Processing.Extensions) == 0 {
		c.Processing.Extensions = defaultExtensions()
	}
	normalized := make([]string, 0, len(c.Processing.Extensions))
	for _, ext := range c.Processing.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Processing.Extensions = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
