package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file picked up from the working directory.
const DefaultPath = "expense.yaml"

// Environment variables consulted by Resolve.
const (
	EnvConfigPath = "EXPENSE_CONFIG"
	EnvDatabase   = "DATABASE_URL"
	EnvDriver     = "EXPENSE_DB_DRIVER"
	EnvLogLevel   = "EXPENSE_LOG_LEVEL"
)

// Supported database/sql driver names.
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// Config represents the expense.yaml configuration.
type Config struct {
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
}

// Database describes how to reach the expenses database.
type Database struct {
	Driver   string `yaml:"driver"`
	Name     string `yaml:"name"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
	URL      string `yaml:"url,omitempty"` // full DSN; wins over the fields above
}

// Log controls diagnostic output on stderr.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns a Config pointing at a local database named "expenses".
func Default() *Config {
	return &Config{
		Database: Database{
			Driver: DriverPgx,
			Name:   "expenses",
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads an expense.yaml file from disk on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the file named
// by EXPENSE_CONFIG (or ./expense.yaml when present), then .env, then
// environment overrides.
func Resolve() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigPath); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if _, err := os.Stat(DefaultPath); err == nil {
		loaded, err := Load(DefaultPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDatabase); v != "" {
		c.Database.URL = v
	}
	if v := getenv(EnvDriver); v != "" {
		c.Database.Driver = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	var errs []string

	switch c.Database.Driver {
	case DriverPgx, DriverPQ:
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be %q or %q, got %q", DriverPgx, DriverPQ, c.Database.Driver))
	}
	if c.Database.URL == "" && c.Database.Name == "" {
		errs = append(errs, "database.name or database.url is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q is not one of text, json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DSN returns the connection string. Both pgx and lib/pq accept the
// keyword/value form built here.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	var parts []string
	add := func(key, value string) {
		if value == "" {
			return
		}
		parts = append(parts, key+"="+quoteDSNValue(value))
	}
	add("dbname", d.Name)
	add("host", d.Host)
	if d.Port != 0 {
		add("port", strconv.Itoa(d.Port))
	}
	add("user", d.User)
	add("password", d.Password)
	add("sslmode", d.SSLMode)
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
