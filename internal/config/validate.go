package config

import (
	"errors"
	"fmt"
	"sort"
)

var (
	backendLevelNames = map[string]struct{}{
		"all": {}, "trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {}, "off": {},
	}
	adminLevelNames = map[string]struct{}{
		"audit": {}, "trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
	}
	logLevelNames = map[string]struct{}{
		"trace": {}, "debug": {}, "info": {}, "warn": {}, "warning": {}, "error": {},
	}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateAdmin(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := logLevelNames[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return validateLevelMap("logging.component_levels", c.Logging.ComponentLevels, logLevelNames)
}

func (c *Config) validateBackend() error {
	if _, ok := backendLevelNames[c.Backend.RootLevel]; !ok {
		return fmt.Errorf("backend.root_level: unsupported value %q", c.Backend.RootLevel)
	}
	if c.Backend.MaxCallerDepth < 0 {
		return errors.New("backend.max_caller_depth must be positive")
	}
	if err := validateLevelMap("backend.levels", c.Backend.Levels, backendLevelNames); err != nil {
		return err
	}
	for i, app := range c.Backend.Appenders {
		switch app.Kind {
		case "console", "json", "stream":
		default:
			return fmt.Errorf("backend.appenders[%d].kind: unsupported value %q", i, app.Kind)
		}
		if app.Threshold == "" {
			continue
		}
		if _, ok := backendLevelNames[app.Threshold]; !ok {
			return fmt.Errorf("backend.appenders[%d].threshold: unsupported value %q", i, app.Threshold)
		}
	}
	return nil
}

func (c *Config) validateAdmin() error {
	switch c.Admin.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("admin.store: unsupported value %q (expected memory or sqlite)", c.Admin.Store)
	}
	return validateLevelMap("admin.levels", c.Admin.Levels, adminLevelNames)
}

func validateLevelMap(section string, levels map[string]string, allowed map[string]struct{}) error {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := allowed[levels[name]]; !ok {
			return fmt.Errorf("%s.%q: unsupported level %q", section, name, levels[name])
		}
	}
	return nil
}
