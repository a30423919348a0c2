package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	validLanguages = []string{"auto", "english", "hindi", "hinglish"}
	validModels    = []string{"tiny", "base", "small", "medium", "large"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBackend() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url must be set")
	}
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend.base_url %q is not a valid http(s) url", c.Backend.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.base_url scheme %q is not supported", parsed.Scheme)
	}
	return ensurePositiveMap(map[string]int{
		"backend.request_timeout": c.Backend.RequestTimeout,
		"backend.upload_timeout":  c.Backend.UploadTimeout,
		"backend.health_timeout":  c.Backend.HealthTimeout,
	})
}

func (c *Config) validateWorkflow() error {
	return ensurePositiveMap(map[string]int{
		"workflow.poll_interval":        c.Workflow.PollInterval,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
		"workflow.max_poll_attempts":    c.Workflow.MaxPollAttempts,
	})
}

func (c *Config) validateDefaults() error {
	if !contains(validLanguages, c.Defaults.Language) {
		return fmt.Errorf("defaults.language %q is not one of %s", c.Defaults.Language, strings.Join(validLanguages, ", "))
	}
	if !contains(validModels, c.Defaults.Model) {
		return fmt.Errorf("defaults.model %q is not one of %s", c.Defaults.Model, strings.Join(validModels, ", "))
	}
	return nil
}

func (c *Config) validateStyle() error {
	if strings.TrimSpace(c.Style.FontFamily) == "" {
		return errors.New("style.font_family must be set")
	}
	if c.Style.FontSize < 8 || c.Style.FontSize > 128 {
		return fmt.Errorf("style.font_size %d must be between 8 and 128", c.Style.FontSize)
	}
	if strings.TrimSpace(c.Style.FontColor) == "" {
		return errors.New("style.font_color must be set")
	}
	if strings.TrimSpace(c.Style.BackgroundColor) == "" {
		return errors.New("style.background_color must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
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

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
