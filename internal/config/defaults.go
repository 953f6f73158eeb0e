package config

const (
	defaultConfigPath     = "~/.config/logbridge/config.toml"
	defaultStateDir       = "~/.local/share/logbridge"
	defaultLogDir         = "~/.local/share/logbridge/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultBackendName    = "logbridge"
	defaultRootLevel      = "debug"
	defaultMaxCallerDepth = 8
	defaultStreamCapacity = 512
	defaultAdminStore     = "memory"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Backend: Backend{
			Name:           defaultBackendName,
			RootLevel:      defaultRootLevel,
			MaxCallerDepth: defaultMaxCallerDepth,
			StreamCapacity: defaultStreamCapacity,
		},
		Admin: Admin{
			Store: defaultAdminStore,
		},
	}
}
