package testsupport

import (
	"path/filepath"
	"testing"

	"logbridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Backend.Appenders = []config.Appender{{Kind: "stream"}}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackendLevel sets an explicit backend level for name.
func WithBackendLevel(name, level string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Backend.Levels == nil {
			b.cfg.Backend.Levels = make(map[string]string)
		}
		b.cfg.Backend.Levels[name] = level
	}
}

// WithAdminLevel seeds the admin registry with level for name.
func WithAdminLevel(name, level string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Admin.Levels == nil {
			b.cfg.Admin.Levels = make(map[string]string)
		}
		b.cfg.Admin.Levels[name] = level
	}
}

// WithSQLiteAdmin switches the admin registry to a SQLite store under the
// test's state directory.
func WithSQLiteAdmin() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Admin.Store = "sqlite"
		b.cfg.Admin.Path = filepath.Join(b.baseDir, "state", "admin.db")
	}
}

// BaseDir returns the root temp directory for the config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
