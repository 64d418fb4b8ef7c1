package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/swelljoe/wthr-widget/internal/recent"
	"github.com/swelljoe/wthr-widget/internal/weather"
)

// Config holds the application settings. Values come from, in increasing
// precedence: defaults, the YAML file, the environment (including .env).
type Config struct {
	Port      string `yaml:"port"`
	StaticDir string `yaml:"static_dir"`

	OpenWeather struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"openweather"`

	Database struct {
		URL  string `yaml:"url"`
		Path string `yaml:"path"`
	} `yaml:"database"`

	RecentLimit int           `yaml:"recent_limit"`
	SessionIdle time.Duration `yaml:"session_idle"`
}

// Default returns the built-in settings
func Default() *Config {
	c := &Config{
		Port:        "8080",
		StaticDir:   "static",
		RecentLimit: recent.DefaultLimit,
		SessionIdle: 30 * 24 * time.Hour,
	}
	c.OpenWeather.BaseURL = weather.DefaultBaseURL
	c.Database.Path = "wthr.db"
	return c
}

// Load reads .env, then the YAML file at path (skipped when empty), then
// the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	c := Default()
	if path != "" {
		if err := c.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.StaticDir = getEnvOrDefault("STATIC_DIR", c.StaticDir)
	c.OpenWeather.APIKey = getEnvOrDefault("OPENWEATHER_API_KEY", c.OpenWeather.APIKey)
	c.OpenWeather.BaseURL = getEnvOrDefault("OPENWEATHER_BASE_URL", c.OpenWeather.BaseURL)
	c.Database.URL = getEnvOrDefault("DATABASE_URL", c.Database.URL)
	c.Database.Path = getEnvOrDefault("DB_PATH", c.Database.Path)

	if v := os.Getenv("RECENT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RECENT_LIMIT %q: %w", v, err)
		}
		c.RecentLimit = n
	}
	if v := os.Getenv("SESSION_IDLE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_IDLE %q: %w", v, err)
		}
		c.SessionIdle = d
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
