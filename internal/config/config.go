// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Bootstrap BootstrapConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk storage configuration.
type DataConfig struct {
	// Path is the directory holding catalog.db and session.key.
	Path string
}

// DatabasePath returns the SQLite database file under the data path.
func (d DataConfig) DatabasePath() string {
	return filepath.Join(d.Path, "catalog.db")
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8080)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string      // Empty disables CORS
}

// SessionConfig holds session cookie configuration.
type SessionConfig struct {
	Duration        time.Duration // Session lifetime (default: 24h)
	CookieName      string        // default: catalog_session
	CookieSecure    bool          // Secure attribute; defaults to true in production
	CleanupInterval time.Duration // Expired session purge period (default: 1h)
}

// RateLimitConfig throttles the credential endpoints per client IP.
type RateLimitConfig struct {
	// PerMinute is the sustained number of register/login requests allowed. Zero disables limiting.
	PerMinute int
	Burst     int
}

// BootstrapConfig names an optional privileged account created at startup.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Enabled reports whether a privileged account should be ensured.
func (b BootstrapConfig) Enabled() bool {
	return b.AdminEmail != ""
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds configuration from args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("catalog-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for the database and session key")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-allowed-origins", "", "Comma-separated origins allowed to call the API")

	// Session flags
	sessionDuration := fs.String("session-duration", "", "Session lifetime (default: 24h)")
	cookieName := fs.String("session-cookie-name", "", "Session cookie name (default: catalog_session)")
	cookieSecure := fs.String("session-cookie-secure", "", "Mark the session cookie Secure (default: true in production)")
	cleanupInterval := fs.String("session-cleanup-interval", "", "Expired session purge period (default: 1h)")

	// Rate limit flags
	authRateLimit := fs.String("auth-rate-limit", "", "Register/login requests per minute per IP (default: 10, 0 disables)")
	authRateBurst := fs.String("auth-rate-burst", "", "Register/login burst per IP (default: 5)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Missing .env files are fine. Existing environment variables win over the file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	environment := getConfigValue(*env, "ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Environment: environment,
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Path: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "")),
		},
		Session: SessionConfig{
			CookieName:   getConfigValue(*cookieName, "SESSION_COOKIE_NAME", "catalog_session"),
			CookieSecure: getBoolConfigValue(*cookieSecure, "SESSION_COOKIE_SECURE", environment == "production"),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getConfigValue("", "ADMIN_EMAIL", ""),
			AdminPassword: getConfigValue("", "ADMIN_PASSWORD", ""),
			AdminName:     getConfigValue("", "ADMIN_NAME", "Administrator"),
		},
	}

	var err error

	if cfg.RateLimit.PerMinute, err = getIntConfigValue(*authRateLimit, "AUTH_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getIntConfigValue(*authRateBurst, "AUTH_RATE_BURST", 5); err != nil {
		return nil, err
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*sessionDuration, "SESSION_DURATION", "24h", &cfg.Session.Duration},
		{*cleanupInterval, "SESSION_CLEANUP_INTERVAL", "1h", &cfg.Session.CleanupInterval},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.Path == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	if c.Session.Duration <= 0 {
		return errors.New("SESSION_DURATION must be positive")
	}
	if c.Session.CleanupInterval <= 0 {
		return errors.New("SESSION_CLEANUP_INTERVAL must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME cannot be empty")
	}

	if c.RateLimit.PerMinute < 0 {
		return errors.New("AUTH_RATE_LIMIT cannot be negative")
	}
	if c.RateLimit.PerMinute > 0 && c.RateLimit.Burst < 1 {
		return errors.New("AUTH_RATE_BURST must be at least 1 when rate limiting is enabled")
	}

	if c.Bootstrap.Enabled() {
		if _, err := mail.ParseAddress(c.Bootstrap.AdminEmail); err != nil {
			return fmt.Errorf("invalid ADMIN_EMAIL: %w", err)
		}
		if len(c.Bootstrap.AdminPassword) < 6 {
			return errors.New("ADMIN_PASSWORD must be at least 6 characters when ADMIN_EMAIL is set")
		}
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute. Defaults to ~/CatalogServer.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "CatalogServer")

	expanded, err := expandPath(c.Data.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Data.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable (including values loaded from .env).
	if envKey != "" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return envValue
		}
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return result, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
