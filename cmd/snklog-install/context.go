package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/snklog/snklog-install/internal/config"
	"github.com/snklog/snklog-install/internal/logging"
	"github.com/snklog/snklog-install/internal/platform"
	"github.com/snklog/snklog-install/internal/receipt"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	detector   platform.Detector

	logger logging.Logger

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	platformOnce sync.Once
	platform     *platform.Info
}

func newCommandContext(configFlag *string, verbose *bool, detector platform.Detector) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		detector:   detector,
		logger:     logging.Nop(),
	}
}

func (c *commandContext) initLogger(w io.Writer) {
	c.logger = logging.New(logging.Options{Verbose: c.verbose != nil && *c.verbose, Writer: w})
}

// explicitConfigPath is the --config flag, else $SNKLOG_INSTALL_CONFIG.
func (c *commandContext) explicitConfigPath() (string, error) {
	path := ""
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	if path == "" {
		path = strings.TrimSpace(os.Getenv(config.EnvConfig))
	}
	if path == "" {
		return "", nil
	}
	return config.ExpandHome(path)
}

// ensureConfig loads the config file and environment overrides once.
// Command-line flags are applied by each command on a copy.
func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	c.configOnce.Do(func() {
		explicit, err := c.explicitConfigPath()
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath = explicit
		if explicit == "" {
			if c.configPath, err = config.DefaultPath(); err != nil {
				c.configErr = fmt.Errorf("resolve config path: %w", err)
				return
			}
		}

		cfg, err := config.NewParser(c.detector).Load(ctx, explicit)
		if err != nil {
			c.logger.Debug("config error", "details", config.FormatError(err, true))
			c.configErr = err
			return
		}
		config.ApplyEnv(cfg, os.Getenv)
		c.logger.Debug("configuration loaded", "path", c.configPath, "url", cfg.URL, "dir", cfg.Dir)
		c.config = cfg
	})
	if c.configErr != nil {
		return nil, c.configErr
	}
	cfg := *c.config
	return &cfg, nil
}

// platformInfo returns the detected host, or nil if detection failed.
func (c *commandContext) platformInfo(ctx context.Context) *platform.Info {
	c.platformOnce.Do(func() {
		if c.detector == nil {
			return
		}
		info, err := c.detector.Detect(ctx)
		if err != nil {
			c.logger.Debug("platform detection failed", "error", err)
			return
		}
		c.platform = info
	})
	return c.platform
}

func (c *commandContext) receiptStore() (*receipt.Store, error) {
	dir, err := receipt.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state directory: %w", err)
	}
	return receipt.NewStore(dir, nil)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
