// Package config loads the application settings from defaults, an optional
// YAML file, ORDERTAKING_* environment variables and command-line flags, in
// that order of increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ORDERTAKING_"

// Config holds the process settings.
type Config struct {
	HTTPAddr      string        `yaml:"http_addr"      env:"HTTP_ADDR"`
	DatabasePath  string        `yaml:"database_path"  env:"DATABASE_PATH"`
	AdminUsername string        `yaml:"admin_username" env:"ADMIN_USERNAME"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD"`
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"`
	SessionTTL    time.Duration `yaml:"session_ttl"    env:"SESSION_TTL"`
	TimeZone      string        `yaml:"time_zone"      env:"TIME_ZONE"`
	Seed          bool          `yaml:"seed"           env:"SEED"`
	LogLevel      string        `yaml:"log_level"      env:"LOG_LEVEL"`
	LogFormat     string        `yaml:"log_format"     env:"LOG_FORMAT"`
	Tracing       bool          `yaml:"tracing"        env:"TRACING"`
	SecureCookies bool          `yaml:"secure_cookies" env:"SECURE_COOKIES"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		HTTPAddr:      "localhost:8080",
		DatabasePath:  "ordertaking.db",
		AdminUsername: "admin",
		AdminPassword: "admin",
		SessionTTL:    12 * time.Hour,
		TimeZone:      "Local",
		Seed:          true,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load builds a Config. environ replaces the process environment when non-nil.
func Load(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	cfg := Default()

	var (
		file     string
		httpAddr string
		dbPath   string
		logLevel string
		seed     bool
		tracing  bool
	)
	fs.StringVar(&file, "config", "", "path to a YAML config file")
	fs.StringVar(&httpAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&dbPath, "db", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&seed, "seed", cfg.Seed, "insert demo customers and vegetables into empty tables")
	fs.BoolVar(&tracing, "tracing", cfg.Tracing, "export HTTP traces to stdout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if file == "" {
		file = lookup(environ, EnvPrefix+"CONFIG")
	}
	if file != "" {
		if err := cfg.LoadFromFile(file); err != nil {
			return Config{}, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "http-addr":
			cfg.HTTPAddr = httpAddr
		case "db":
			cfg.DatabasePath = dbPath
		case "log-level":
			cfg.LogLevel = logLevel
		case "seed":
			cfg.Seed = seed
		case "tracing":
			cfg.Tracing = tracing
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromFile overlays the keys present in a YAML file onto c.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("http address is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.New("database path is required")
	}
	if strings.TrimSpace(c.AdminUsername) == "" {
		return errors.New("admin username is required")
	}
	if c.AdminPassword == "" {
		return errors.New("admin password is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Location resolves TimeZone; "today" is computed in this zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func lookup(environ map[string]string, key string) string {
	if environ != nil {
		return environ[key]
	}
	return os.Getenv(key)
}
