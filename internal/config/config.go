package config

import (
	"os"
	"time"
)

// Config holds the application's configuration values.
type Config struct {
	ListenAddr    string
	DatabasePath  string
	ProbeTimeout  time.Duration
	ShutdownGrace time.Duration

	// Mailgun settings; when the API key is empty the server falls back
	// to the logging mailer (no real email leaves the process).
	MailgunDomain string
	MailgunAPIKey string
	EmailFrom     string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "uptime-kama.db"),
		ProbeTimeout:  getEnvDuration("PROBE_TIMEOUT", 30*time.Second),
		ShutdownGrace: getEnvDuration("SHUTDOWN_GRACE", 10*time.Second),
		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getEnv("MAILGUN_API_KEY", ""),
		EmailFrom:     getEnv("EMAIL_FROM", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return fallback
}
