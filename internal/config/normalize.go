package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBackend(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeDefaults()
	c.normalizeStyle()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeBackend() error {
	c.Backend.BaseURL = strings.TrimSpace(c.Backend.BaseURL)
	if value, ok := os.LookupEnv("CAPSTAN_BACKEND_URL"); ok && strings.TrimSpace(value) != "" {
		c.Backend.BaseURL = strings.TrimSpace(value)
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBackendBaseURL
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultRequestTimeout
	}
	if c.Backend.UploadTimeout <= 0 {
		c.Backend.UploadTimeout = defaultUploadTimeout
	}
	if c.Backend.HealthTimeout <= 0 {
		c.Backend.HealthTimeout = defaultHealthTimeout
	}
	return nil
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.PollInterval <= 0 {
		c.Workflow.PollInterval = defaultPollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Workflow.MaxPollAttempts <= 0 {
		c.Workflow.MaxPollAttempts = defaultMaxPollAttempts
	}
}

func (c *Config) normalizeDefaults() {
	c.Defaults.Language = strings.ToLower(strings.TrimSpace(c.Defaults.Language))
	if c.Defaults.Language == "" {
		c.Defaults.Language = defaultLanguage
	}
	c.Defaults.Model = strings.ToLower(strings.TrimSpace(c.Defaults.Model))
	if c.Defaults.Model == "" {
		c.Defaults.Model = defaultModel
	}
}

func (c *Config) normalizeStyle() {
	c.Style.FontFamily = strings.TrimSpace(c.Style.FontFamily)
	if c.Style.FontFamily == "" {
		c.Style.FontFamily = defaultFontFamily
	}
	if c.Style.FontSize <= 0 {
		c.Style.FontSize = defaultFontSize
	}
	c.Style.FontColor = strings.ToLower(strings.TrimSpace(c.Style.FontColor))
	if c.Style.FontColor == "" {
		c.Style.FontColor = defaultFontColor
	}
	c.Style.BackgroundColor = strings.ToLower(strings.TrimSpace(c.Style.BackgroundColor))
	if c.Style.BackgroundColor == "" {
		c.Style.BackgroundColor = defaultBackgroundColor
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
