package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (PRACTICEPICKER_*). SUPABASE_URL and SUPABASE_KEY are read as fallbacks for
// the remote settings. It respects flags that have been explicitly set
// (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-file", os.Getenv("PRACTICEPICKER_DATA_FILE"), &cfg.DataFile)
	s.setString("remote-url", firstEnv("PRACTICEPICKER_REMOTE_URL", "SUPABASE_URL"), &cfg.RemoteURL)
	s.setString("remote-key", firstEnv("PRACTICEPICKER_REMOTE_KEY", "SUPABASE_KEY"), &cfg.RemoteKey)
	s.setString("postgres-dsn", os.Getenv("PRACTICEPICKER_POSTGRES_DSN"), &cfg.PostgresDSN)
	s.setString("listen", os.Getenv("PRACTICEPICKER_LISTEN"), &cfg.Listen)
	s.setString("log-level", os.Getenv("PRACTICEPICKER_LOG_LEVEL"), &cfg.LogLevel)

	return s.setDuration("timeout", os.Getenv("PRACTICEPICKER_HTTP_TIMEOUT"), &cfg.HTTPTimeout)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
