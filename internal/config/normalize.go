package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "LOGBRIDGE_LOG_LEVEL"

var levelFolder = cases.Fold()

// FoldLevel returns the canonical lower-case spelling of a level name.
func FoldLevel(name string) string {
	return levelFolder.String(strings.TrimSpace(name))
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeBackend()
	if err := c.normalizeAdmin(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = FoldLevel(c.Logging.Format)
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = FoldLevel(c.Logging.Level)
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.ComponentLevels = foldLevelMap(c.Logging.ComponentLevels)
}

func (c *Config) normalizeBackend() {
	c.Backend.Name = strings.TrimSpace(c.Backend.Name)
	if c.Backend.Name == "" {
		c.Backend.Name = defaultBackendName
	}
	c.Backend.RootLevel = FoldLevel(c.Backend.RootLevel)
	if c.Backend.RootLevel == "" {
		c.Backend.RootLevel = defaultRootLevel
	}
	if c.Backend.MaxCallerDepth == 0 {
		c.Backend.MaxCallerDepth = defaultMaxCallerDepth
	}
	if c.Backend.StreamCapacity <= 0 {
		c.Backend.StreamCapacity = defaultStreamCapacity
	}
	pkgs := make([]string, 0, len(c.Backend.FrameworkPackages))
	seen := make(map[string]struct{}, len(c.Backend.FrameworkPackages))
	for _, pkg := range c.Backend.FrameworkPackages {
		trimmed := strings.TrimSpace(pkg)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		pkgs = append(pkgs, trimmed)
	}
	c.Backend.FrameworkPackages = pkgs
	c.Backend.Levels = foldLevelMap(c.Backend.Levels)
	if len(c.Backend.Appenders) == 0 {
		c.Backend.Appenders = []Appender{{Kind: "console", Path: "stdout"}}
	}
	for i := range c.Backend.Appenders {
		app := &c.Backend.Appenders[i]
		app.Kind = FoldLevel(app.Kind)
		app.Threshold = FoldLevel(app.Threshold)
		app.Path = strings.TrimSpace(app.Path)
		if app.Kind != "stream" && app.Path == "" {
			app.Path = "stdout"
		}
	}
}

func (c *Config) normalizeAdmin() error {
	c.Admin.Store = FoldLevel(c.Admin.Store)
	if c.Admin.Store == "" {
		c.Admin.Store = defaultAdminStore
	}
	if c.Admin.Path != "" {
		var err error
		if c.Admin.Path, err = expandPath(c.Admin.Path); err != nil {
			return fmt.Errorf("admin.path: %w", err)
		}
	}
	c.Admin.Levels = foldLevelMap(c.Admin.Levels)
	return nil
}

func foldLevelMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return in
	}
	out := make(map[string]string, len(in))
	for name, level := range in {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		out[key] = FoldLevel(level)
	}
	return out
}
