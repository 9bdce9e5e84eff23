package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures credentials, API transport settings, fetch options and output.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	API         APIConfig         `yaml:"api"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type CredentialsConfig struct {
	// VK access token (service or user). If empty, read from env VK_TOKEN
	AccessToken string `yaml:"accessToken"`
}

type APIConfig struct {
	BaseURL string `yaml:"baseURL"`
	Version string `yaml:"version"`
	Lang    string `yaml:"lang"`
	// HTTP client timeout, e.g. "15s"
	Timeout string `yaml:"timeout"`
	// Client-side pacing. VK allows 3 requests per second per token.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type FetchConfig struct {
	PageSize       int    `yaml:"pageSize"`
	IncludeViews   bool   `yaml:"includeViews"`
	IncludeReposts bool   `yaml:"includeReposts"`
	DateLayout     string `yaml:"dateLayout"`
	// IANA zone for window bounds and post dates; empty means local time
	Timezone string `yaml:"timezone"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // "jsonl" or "sqlite"
	// Output path; "-" writes JSONL to stdout
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

const (
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
)

// MaxPageSize is the largest count wall.get and wall.getComments accept.
const MaxPageSize = 100

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://api.vk.com/method",
			Version: "5.199",
			Lang:    "ru",
			Timeout: "15s",
			RPS:     3,
			Burst:   1,
		},
		Fetch: FetchConfig{
			PageSize:     MaxPageSize,
			IncludeViews: true,
			DateLayout:   "02-01-2006",
		},
		Output:  OutputConfig{Format: FormatJSONL, Path: "-"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ResolveEnv applies environment variables. VK_TOKEN and METRICS_ADDR only
// fill fields left empty; VK_API_VERSION, when set, overrides the configured
// version.
// A .env file in the working directory is loaded first when present.
func (c *Config) ResolveEnv() {
	_ = godotenv.Load()
	if c.Credentials.AccessToken == "" {
		c.Credentials.AccessToken = os.Getenv("VK_TOKEN")
	}
	if v := os.Getenv("VK_API_VERSION"); v != "" {
		c.API.Version = v
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
}

// Validate checks values the fetch path depends on.
func (c Config) Validate() error {
	if c.Credentials.AccessToken == "" {
		return errors.New("missing access token (credentials.accessToken or VK_TOKEN)")
	}
	if c.Fetch.PageSize <= 0 || c.Fetch.PageSize > MaxPageSize {
		return fmt.Errorf("fetch.pageSize must be in 1..%d, got %d", MaxPageSize, c.Fetch.PageSize)
	}
	switch c.Output.Format {
	case FormatJSONL, FormatSQLite:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Output.Format == FormatSQLite && (c.Output.Path == "" || c.Output.Path == "-") {
		return errors.New("sqlite output needs a file path")
	}
	if _, err := c.API.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.Fetch.Location(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses the configured HTTP timeout.
func (a APIConfig) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	return d, nil
}

// Location resolves the configured timezone.
func (f FetchConfig) Location() (*time.Location, error) {
	if f.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("fetch.timezone: %w", err)
	}
	return loc, nil
}

// Load reads YAML config from path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
