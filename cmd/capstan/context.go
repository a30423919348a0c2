package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"capstan/internal/config"
	"capstan/internal/logging"
)

// commandContext carries state shared across CLI commands. Configuration
// and logger construction are lazy so commands that opt out of them stay
// cheap.
type commandContext struct {
	configFlag *string
	serverFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, serverFlag: serverFlag}
}

func (c *commandContext) configPathFlag() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPathFlag())
		if err != nil {
			c.configErr = err
			return
		}
		if c.serverFlag != nil {
			if server := strings.TrimSpace(*c.serverFlag); server != "" {
				cfg.Backend.BaseURL = strings.TrimRight(server, "/")
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the shared file logger. Output goes to capstan.log
// under the configured log directory so stdout stays clean for tables
// and progress rendering.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logPath := filepath.Join(cfg.Paths.LogDir, "capstan.log")
		logger, err := logging.New(logging.Options{
			Level:            cfg.Logging.Level,
			Format:           cfg.Logging.Format,
			OutputPaths:      []string{logPath},
			ErrorOutputPaths: []string{logPath},
		})
		if err != nil {
			c.loggerErr = fmt.Errorf("initialize logging: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}
