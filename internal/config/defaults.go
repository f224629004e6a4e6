package config

const (
	defaultClientID              = "1054951789318909972"
	defaultMaxRetries            = 3
	defaultRetryDelaySeconds     = 5
	defaultWatcherMode           = ModeTitle
	defaultUpdateIntervalSeconds = 5
	defaultCachePath             = "~/.cache/cadence/tracks.json"
	defaultCacheDurationSeconds  = 86400
	defaultHeadersFile           = "~/.config/cadence/headers_auth.json"
	defaultLogFormat             = ""
	defaultLogLevel              = "info"
	defaultLogDir                = "~/.local/share/cadence/logs"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Discord: Discord{
			ClientID:          defaultClientID,
			MaxRetries:        defaultMaxRetries,
			RetryDelaySeconds: defaultRetryDelaySeconds,
		},
		Watcher: Watcher{
			Mode:                  defaultWatcherMode,
			UpdateIntervalSeconds: defaultUpdateIntervalSeconds,
			WindowPatterns:        []string{"YouTube Music"},
		},
		Cache: Cache{
			Path:            defaultCachePath,
			DurationSeconds: defaultCacheDurationSeconds,
		},
		Auth: Auth{
			HeadersFile: defaultHeadersFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
	}
}
