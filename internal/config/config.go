package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config is the toybox configuration, read from YAML and overridden by env.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	TimeZone string `yaml:"time_zone"`
	Theme    string `yaml:"theme"`

	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	FX       FXConfig       `yaml:"fx"`
	Books    BooksConfig    `yaml:"books"`
	Receipt  ReceiptConfig  `yaml:"receipt"`
	Timecard TimecardConfig `yaml:"timecard"`
	Roulette RouletteConfig `yaml:"roulette"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // relative paths resolve against DataDir
}

type HTTPConfig struct {
	Timeout      string  `yaml:"timeout"`
	RatePerSec   float64 `yaml:"rate_per_sec"`
	Burst        int     `yaml:"burst"`
	CacheTTL     string  `yaml:"cache_ttl"`
	CacheMaxSize int     `yaml:"cache_max_size"`
}

type FXConfig struct {
	Endpoint string   `yaml:"endpoint"`
	Pairs    []string `yaml:"pairs"`
	Refresh  string   `yaml:"refresh"`
}

type BooksConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ReceiptConfig struct {
	Issuer string `yaml:"issuer"`
}

type TimecardConfig struct {
	Backend string `yaml:"backend"` // csv or sqlite
	CSVFile string `yaml:"csv_file"`
	DBFile  string `yaml:"db_file"`
}

type RouletteConfig struct {
	Options []string `yaml:"options"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	dir := ".toybox"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".toybox")
	}
	return &Config{
		DataDir:  dir,
		TimeZone: "Asia/Tokyo",
		Theme:    "classic",
		Logging: LoggingConfig{
			Level: "info",
			File:  "toybox.log",
		},
		HTTP: HTTPConfig{
			Timeout:      "10s",
			RatePerSec:   2,
			Burst:        2,
			CacheTTL:     "10m",
			CacheMaxSize: 256,
		},
		FX: FXConfig{
			Endpoint: "https://query1.finance.yahoo.com/v8/finance/chart/",
			Pairs:    []string{"USDJPY=X", "CADJPY=X"},
			Refresh:  "60s",
		},
		Books: BooksConfig{
			Endpoint: "https://www.googleapis.com/books/v1/volumes",
		},
		Receipt: ReceiptConfig{
			Issuer: "（あなたの会社名など）",
		},
		Timecard: TimecardConfig{
			Backend: "csv",
			CSVFile: "timecard.csv",
			DBFile:  "timecard.db",
		},
		Roulette: RouletteConfig{
			Options: []string{"イギリス", "オランダ", "アメリカ", "カナダ", "ドイツ", "オーストラリア"},
		},
	}
}

// DefaultPath is $HOME/.toybox/config.yaml.
func DefaultPath() string {
	return filepath.Join(DefaultConfig().DataDir, "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TOYBOX_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TOYBOX_TZ"); v != "" {
		c.TimeZone = v
	}
	if v := os.Getenv("TOYBOX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TOYBOX_ISSUER"); v != "" {
		c.Receipt.Issuer = v
	}
	if v := os.Getenv("TOYBOX_FX_PAIRS"); v != "" {
		var pairs []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pairs = append(pairs, p)
			}
		}
		if len(pairs) > 0 {
			c.FX.Pairs = pairs
		}
	}
	if v := os.Getenv("TOYBOX_TIMECARD_BACKEND"); v != "" {
		c.Timecard.Backend = strings.ToLower(v)
	}
}

// Validate checks values that would otherwise fail far from their source.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	for name, s := range map[string]string{
		"http.timeout":   c.HTTP.Timeout,
		"http.cache_ttl": c.HTTP.CacheTTL,
		"fx.refresh":     c.FX.Refresh,
	} {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, s, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s %q: must be positive", name, s)
		}
	}
	switch c.Timecard.Backend {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("invalid timecard.backend %q (want csv or sqlite)", c.Timecard.Backend)
	}
	if len(c.FX.Pairs) == 0 {
		return fmt.Errorf("fx.pairs is empty")
	}
	return nil
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time_zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Path resolves name against DataDir unless it is already absolute.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) HTTPTimeout() time.Duration { return mustDuration(c.HTTP.Timeout) }
func (c *Config) CacheTTL() time.Duration    { return mustDuration(c.HTTP.CacheTTL) }
func (c *Config) FXRefresh() time.Duration   { return mustDuration(c.FX.Refresh) }

// mustDuration is only called after Validate.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
