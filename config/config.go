package config

import "os"

// Config carries everything the application needs at startup. It is
// built once in main and handed to the database and handlers
// explicitly instead of living in package-level globals.
type Config struct {
	Port      string
	DBPath    string
	SecretKey string
	StaticDir string
	LogLevel  string
	JSONLog   bool
}

// Load reads the configuration from environment variables, falling
// back to development defaults.
func Load() Config {
	cfg := Config{
		Port:      getenv("PORT", "8081"),
		DBPath:    getenv("DB_PATH", "library.db"),
		SecretKey: getenv("SECRET_KEY", "default-dev-secret-change-me"),
		StaticDir: getenv("STATIC_DIR", "static"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		JSONLog:   os.Getenv("JSON_LOG") == "true",
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
