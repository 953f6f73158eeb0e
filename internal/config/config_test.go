package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"logbridge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvLogLevel, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "logbridge")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Backend.RootLevel != "debug" {
		t.Fatalf("expected debug root level, got %q", cfg.Backend.RootLevel)
	}
	if cfg.Backend.MaxCallerDepth != 8 {
		t.Fatalf("unexpected max caller depth: %d", cfg.Backend.MaxCallerDepth)
	}
	if len(cfg.Backend.Appenders) != 1 || cfg.Backend.Appenders[0].Kind != "console" {
		t.Fatalf("expected single console appender, got %+v", cfg.Backend.Appenders)
	}
	if cfg.Admin.Store != "memory" {
		t.Fatalf("expected memory admin store, got %q", cfg.Admin.Store)
	}
	if got := cfg.AdminStorePath(); got != filepath.Join(wantState, "admin.db") {
		t.Fatalf("unexpected admin store path %q", got)
	}
	if got := cfg.LockPath(); got != filepath.Join(wantState, "logbridge.lock") {
		t.Fatalf("unexpected lock path %q", got)
	}
}

func TestLoadCustomPathFoldsLevelNames(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvLogLevel, "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := `
[paths]
state_dir = "~/state"

[backend]
root_level = "INFO"
framework_packages = ["example.com/wrap", "example.com/wrap", " "]

[backend.levels]
"a.b" = "Warn"

[[backend.appenders]]
kind = "JSON"
threshold = "Error"

[admin]
store = "SQLite"

[admin.levels]
"c.d" = "AUDIT"
`
	if err := os.WriteFile(configPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Backend.RootLevel != "info" {
		t.Fatalf("expected folded root level, got %q", cfg.Backend.RootLevel)
	}
	if got := cfg.Backend.Levels["a.b"]; got != "warn" {
		t.Fatalf("expected folded backend level, got %q", got)
	}
	if len(cfg.Backend.FrameworkPackages) != 1 {
		t.Fatalf("expected deduplicated framework packages, got %v", cfg.Backend.FrameworkPackages)
	}
	app := cfg.Backend.Appenders[0]
	if app.Kind != "json" || app.Threshold != "error" || app.Path != "stdout" {
		t.Fatalf("unexpected appender %+v", app)
	}
	if cfg.Admin.Store != "sqlite" {
		t.Fatalf("expected sqlite store, got %q", cfg.Admin.Store)
	}
	if got := cfg.Admin.Levels["c.d"]; got != "audit" {
		t.Fatalf("expected folded admin level, got %q", got)
	}
}

func TestEnvVarOverridesLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvLogLevel, "DEBUG")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env override, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[backend]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[backend]") {
		t.Fatal("sample config missing backend section")
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if parsed.Backend.RootLevel != "debug" {
		t.Fatalf("unexpected sample root level %q", parsed.Backend.RootLevel)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "backend root level",
			mutate: func(c *config.Config) { c.Backend.RootLevel = "loud" },
			want:   "backend.root_level",
		},
		{
			name:   "appender kind",
			mutate: func(c *config.Config) { c.Backend.Appenders = []config.Appender{{Kind: "syslog"}} },
			want:   "backend.appenders[0].kind",
		},
		{
			name:   "admin store",
			mutate: func(c *config.Config) { c.Admin.Store = "redis" },
			want:   "admin.store",
		},
		{
			name:   "admin level vocabulary",
			mutate: func(c *config.Config) { c.Admin.Levels = map[string]string{"x": "off"} },
			want:   "admin.levels",
		},
		{
			name:   "negative caller depth",
			mutate: func(c *config.Config) { c.Backend.MaxCallerDepth = -1 },
			want:   "max_caller_depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", dir, err)
		}
	}
}
