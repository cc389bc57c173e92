package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceRoot) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/squeeze/config.toml"
		}
		return fmt.Errorf("paths.source_root is required. Edit %s (create with 'squeeze config init')", defaultPath)
	}
	if strings.TrimSpace(c.Paths.OutputRoot) == "" {
		return errors.New("paths.output_root must be set")
	}
	if c.Paths.OutputRoot == c.Paths.SourceRoot {
		return errors.New("paths.output_root must differ from paths.source_root")
	}
	if c.Paths.ScratchRoot == c.Paths.OutputRoot || c.Paths.ScratchRoot == c.Paths.SourceRoot {
		return errors.New("paths.scratch_root must differ from the source and output roots")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if err := ensurePositiveMap(map[string]int{
		"processing.max_retries": c.Processing.MaxRetries,
		"processing.workers":     c.Processing.Workers,
	}); err != nil {
		return err
	}
	if c.Processing.RetryDelaySeconds < 0 {
		return errors.New("processing.retry_delay_seconds must be >= 0")
	}
	if c.Processing.MinSourceBytes < 0 {
		return errors.New("processing.min_source_bytes must be >= 0")
	}
	if len(c.Processing.Extensions) == 0 {
		return errors.New("processing.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if !c.Notifications.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Notifications.SMTPHost) == "" {
		return errors.New("notifications.smtp_host must be set when notifications.enabled is true")
	}
	if c.Notifications.SMTPPort <= 0 || c.Notifications.SMTPPort > 65535 {
		return errors.New("notifications.smtp_port must be between 1 and 65535")
	}
	if strings.TrimSpace(c.Notifications.FromAddress) == "" {
		return errors.New("notifications.from_address must be set when notifications.enabled is true")
	}
	if strings.TrimSpace(c.Notifications.ToAddress) == "" {
		return errors.New("notifications.to_address must be set when notifications.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
