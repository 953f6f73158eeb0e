package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging configures the bridge's own diagnostic log (not the backend).
type Logging struct {
	Format          string            `toml:"format"`
	Level           string            `toml:"level"`
	ComponentLevels map[string]string `toml:"component_levels"`
}

// Appender describes one backend output stage.
type Appender struct {
	// Kind is one of "console", "json", or "stream".
	Kind      string `toml:"kind"`
	Threshold string `toml:"threshold"`
	// Path is a file path, "stdout", or "stderr". Ignored for stream appenders.
	Path string `toml:"path"`
}

// Backend configures the hierarchical logging backend records are bridged into.
type Backend struct {
	Name              string   `toml:"name"`
	RootLevel         string   `toml:"root_level"`
	MaxCallerDepth    int      `toml:"max_caller_depth"`
	FrameworkPackages []string `toml:"framework_packages"`
	PackagingData     bool     `toml:"packaging_data"`
	CallerData        bool     `toml:"caller_data"`
	StreamCapacity    int      `toml:"stream_capacity"`
	// Archive journals every stream event to events.jsonl in the log directory.
	Archive   bool              `toml:"archive"`
	Levels    map[string]string `toml:"levels"`
	Appenders []Appender        `toml:"appenders"`
}

// Admin configures the administrative level registry.
type Admin struct {
	// Store is "memory" or "sqlite".
	Store  string            `toml:"store"`
	Path   string            `toml:"path"`
	Levels map[string]string `toml:"levels"`
}

// Config encapsulates all configuration values for logbridge.
//
// Configuration sections:
//   - Paths: state and log directories
//   - Logging: the bridge's own diagnostic output
//   - Backend: logger tree defaults, caller-data capture, appenders
//   - Admin: administrative registry storage and seed levels
type Config struct {
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
	Backend Backend `toml:"backend"`
	Admin   Admin   `toml:"admin"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
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
		decoder.DisallowUnknownFields()
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("logbridge.toml")
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

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "logbridge.lock")
}

// ArchivePath returns the stream event journal location, or "" when archiving
// is disabled.
func (c *Config) ArchivePath() string {
	if !c.Backend.Archive || c.Paths.LogDir == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "events.jsonl")
}

// AdminStorePath returns the SQLite database path for the admin registry.
func (c *Config) AdminStorePath() string {
	if c.Admin.Path != "" {
		return c.Admin.Path
	}
	return filepath.Join(c.Paths.StateDir, "admin.db")
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

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
