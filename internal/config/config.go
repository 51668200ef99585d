// internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// DBPath is the sqlite database file. Defaults to baseDir/health-log.db.
	DBPath string `json:"db_path,omitempty"`

	// GeminiAPIKey authenticates against the generation service. Usually
	// supplied via the GEMINI_API_KEY environment variable, not the file.
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`

	// Model is the generation model used for every capability.
	Model string `json:"model,omitempty"`

	// RecentReadings is the window size for the meal-plan context.
	RecentReadings int `json:"recent_readings,omitempty"`

	// ExtractTimeoutSecs bounds each extraction round trip.
	ExtractTimeoutSecs int `json:"extract_timeout_secs,omitempty"`

	// Host and Port configure the HTTP tool server.
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// DefaultConfig returns the default configuration rooted at baseDir.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		DBPath:             filepath.Join(baseDir, "health-log.db"),
		Model:              "gemini-2.5-pro",
		RecentReadings:     3,
		ExtractTimeoutSecs: 60,
		Host:               "0.0.0.0",
		Port:               8011,
	}
}

// Load reads baseDir/config.json, fills unset fields with defaults, and
// applies environment overrides. A missing file is not an error.
func Load(baseDir string) (*Config, error) {
	cfg := DefaultConfig(baseDir)

	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	switch {
	case err == nil:
		var file Config
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, err
		}
		cfg.merge(&file)
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.DBPath != "" {
		c.DBPath = o.DBPath
	}
	if o.GeminiAPIKey != "" {
		c.GeminiAPIKey = o.GeminiAPIKey
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.RecentReadings > 0 {
		c.RecentReadings = o.RecentReadings
	}
	if o.ExtractTimeoutSecs > 0 {
		c.ExtractTimeoutSecs = o.ExtractTimeoutSecs
	}
	if o.Host != "" {
		c.Host = o.Host
	}
	if o.Port > 0 {
		c.Port = o.Port
	}
}

// applyEnv lets the environment win over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("HEALTH_LOG_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("HEALTH_LOG_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("HEALTH_LOG_RECENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RecentReadings = n
		}
	}
}

// ExtractTimeout returns the per-call extraction deadline.
func (c *Config) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSecs) * time.Second
}
