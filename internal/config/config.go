package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobboard/internal/adapter"
)

const (
	// EnvConfigPath names the config file when --config is not given.
	EnvConfigPath = "JOBBOARD_CONFIG"
	// EnvEndpoint overrides the endpoint from the config file.
	EnvEndpoint = "JOBBOARD_ENDPOINT"

	defaultConfigFile = "config.yaml"
)

// Config is the root configuration for jobboard.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Retry    RetryConfig
	Refresh  RefreshConfig
	Theme    string
	Watch    WatchConfig
}

// RetryConfig controls retries of failed board fetches.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RefreshConfig controls how often the board endpoint may be hit.
type RefreshConfig struct {
	MinInterval time.Duration // minimum gap between two requests to the board host
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Interval time.Duration
	Cron     string // overrides Interval when set
	Query    string
	SeenTTL  time.Duration // how long a posting stays deduplicated
	Baseline bool          // first poll records postings without notifying
}

// DarkTheme reports whether the configured theme is dark.
func (c *Config) DarkTheme() bool {
	return c.Theme == "dark"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Endpoint string         `yaml:"endpoint"`
	Timeout  string         `yaml:"timeout"`
	Retry    rawRetryConfig `yaml:"retry"`
	Refresh  struct {
		MinInterval string `yaml:"min_interval"`
	} `yaml:"refresh"`
	Theme string         `yaml:"theme"`
	Watch rawWatchConfig `yaml:"watch"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
	Cron     string `yaml:"cron"`
	Query    string `yaml:"query"`
	SeenTTL  string `yaml:"seen_ttl"`
	Baseline bool   `yaml:"baseline"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Endpoint: adapter.DefaultEndpoint,
		Timeout:  15 * time.Second,
		Retry: RetryConfig{
			MaxRetries: 3,
			BaseDelay:  time.Second,
		},
		Refresh: RefreshConfig{MinInterval: time.Second},
		Theme:   "light",
		Watch: WatchConfig{
			Interval: 10 * time.Minute,
			SeenTTL:  7 * 24 * time.Hour,
		},
	}
}

// ResolvePath picks the config file: the flag value, then $JOBBOARD_CONFIG,
// then ./config.yaml if it exists. An empty result means use defaults.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. An empty path yields the defaults. $JOBBOARD_ENDPOINT, when
// set, replaces the endpoint either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		// Expand environment variables
		expanded := os.ExpandEnv(string(data))

		var raw rawConfig
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if err := raw.apply(cfg); err != nil {
			return nil, err
		}
	}

	if ep := os.Getenv(EnvEndpoint); ep != "" {
		cfg.Endpoint = ep
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (raw *rawConfig) apply(cfg *Config) error {
	if raw.Endpoint != "" {
		cfg.Endpoint = raw.Endpoint
	}
	if raw.Theme != "" {
		cfg.Theme = raw.Theme
	}
	if raw.Retry.MaxRetries != nil {
		cfg.Retry.MaxRetries = *raw.Retry.MaxRetries
	}
	cfg.Watch.Cron = raw.Watch.Cron
	cfg.Watch.Query = raw.Watch.Query
	cfg.Watch.Baseline = raw.Watch.Baseline

	durations := []struct {
		key string
		val string
		dst *time.Duration
	}{
		{"timeout", raw.Timeout, &cfg.Timeout},
		{"retry.base_delay", raw.Retry.BaseDelay, &cfg.Retry.BaseDelay},
		{"refresh.min_interval", raw.Refresh.MinInterval, &cfg.Refresh.MinInterval},
		{"watch.interval", raw.Watch.Interval, &cfg.Watch.Interval},
		{"watch.seen_ttl", raw.Watch.SeenTTL, &cfg.Watch.SeenTTL},
	}
	for _, d := range durations {
		if d.val == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.val)
		if err != nil {
			return fmt.Errorf("parse %s %q: %w", d.key, d.val, err)
		}
		*d.dst = parsed
	}
	return nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an http(s) URL, got %q", cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.Retry.MaxRetries < 0 || cfg.Retry.MaxRetries > 5 {
		return fmt.Errorf("retry.max_retries must be between 0 and 5, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry.base_delay must not be negative, got %v", cfg.Retry.BaseDelay)
	}
	if cfg.Refresh.MinInterval < 0 {
		return fmt.Errorf("refresh.min_interval must not be negative, got %v", cfg.Refresh.MinInterval)
	}
	switch cfg.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("theme must be \"light\" or \"dark\", got %q", cfg.Theme)
	}
	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", cfg.Watch.Interval)
	}
	if cfg.Watch.SeenTTL < 0 {
		return fmt.Errorf("watch.seen_ttl must not be negative, got %v", cfg.Watch.SeenTTL)
	}
	if cfg.Watch.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Watch.Cron); err != nil {
			return fmt.Errorf("watch.cron %q: %w", cfg.Watch.Cron, err)
		}
	}
	return nil
}
