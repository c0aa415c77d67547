// config.go — Configuration loading with priority cascade.
// Priority: defaults < config file < env vars < flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/issuetap/issuetap/internal/devtools"
)

// DefaultPath is tried when no config file is named explicitly.
const DefaultPath = "issuetap.yaml"

// ChromeConfig controls how the browser is launched or attached.
type ChromeConfig struct {
	DebuggerURL string        `yaml:"debugger_url"` // attach to a running browser instead of launching
	Bin         string        `yaml:"bin"`          // browser binary; empty means auto-detect
	Headless    bool          `yaml:"headless"`
	Flags       []string      `yaml:"flags"`        // extra browser flags, name=value
	PageTimeout time.Duration `yaml:"page_timeout"` // navigation deadline per page
}

// ObserveConfig controls a single observation window.
type ObserveConfig struct {
	Duration time.Duration `yaml:"duration"` // how long a window stays open
	Settle   time.Duration `yaml:"settle"`   // extra wait after navigation before stopping
}

// ServeConfig controls serve mode.
type ServeConfig struct {
	Listen   string        `yaml:"listen"`
	Interval time.Duration `yaml:"interval"` // pause between observation rounds
	Pages    []string      `yaml:"pages"`    // URLs observed each round
	History  int           `yaml:"history"`  // reports retained in memory
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // json or summary
}

// TraceConfig controls the protocol diagnostics ring.
type TraceConfig struct {
	Capacity int `yaml:"capacity"`
}

// Config holds all resolved configuration values.
type Config struct {
	Chrome  ChromeConfig  `yaml:"chrome"`
	Observe ObserveConfig `yaml:"observe"`
	Serve   ServeConfig   `yaml:"serve"`
	Output  OutputConfig  `yaml:"output"`
	Trace   TraceConfig   `yaml:"trace"`
}

// FlagOverrides holds values explicitly set via command-line flags.
// Nil pointer means the flag was not set, so lower-priority values are
// kept.
type FlagOverrides struct {
	DebuggerURL   *string
	Bin           *string
	Headless      *bool
	Duration      *time.Duration
	Settle        *time.Duration
	Listen        *string
	Interval      *time.Duration
	Format        *string
	TraceCapacity *int
}

// Defaults returns the base configuration.
func Defaults() Config {
	return Config{
		Chrome: ChromeConfig{
			Headless:    true,
			PageTimeout: 30 * time.Second,
		},
		Observe: ObserveConfig{
			Duration: 10 * time.Second,
			Settle:   2 * time.Second,
		},
		Serve: ServeConfig{
			Listen:   ":9464",
			Interval: time.Minute,
			History:  32,
		},
		Output: OutputConfig{
			Format: "summary",
		},
		Trace: TraceConfig{
			Capacity: devtools.DefaultTraceCapacity,
		},
	}
}

// Load builds the final configuration by applying the priority cascade.
// An empty path tries DefaultPath and tolerates its absence; a named
// path must exist.
func Load(path string, flags *FlagOverrides) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := loadFile(&cfg, path, explicit); err != nil {
		return cfg, err
	}

	loadEnvVars(&cfg)

	if flags != nil {
		applyFlags(&cfg, flags)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadFile merges a YAML config file over cfg. YAML only touches keys
// that are present, so merging needs no pointer shadow struct.
func loadFile(cfg *Config, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnvVars applies ISSUETAP_* environment overrides.
func loadEnvVars(cfg *Config) {
	if v := os.Getenv("ISSUETAP_DEBUGGER_URL"); v != "" {
		cfg.Chrome.DebuggerURL = v
	}
	if v := os.Getenv("ISSUETAP_CHROME_BIN"); v != "" {
		cfg.Chrome.Bin = v
	}
	if v := os.Getenv("ISSUETAP_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Chrome.Headless = b
		}
	}
	if v := os.Getenv("ISSUETAP_PAGE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Chrome.PageTimeout = d
		}
	}
	if v := os.Getenv("ISSUETAP_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Observe.Duration = d
		}
	}
	if v := os.Getenv("ISSUETAP_SETTLE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Observe.Settle = d
		}
	}
	if v := os.Getenv("ISSUETAP_LISTEN"); v != "" {
		cfg.Serve.Listen = v
	}
	if v := os.Getenv("ISSUETAP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Serve.Interval = d
		}
	}
	if v := os.Getenv("ISSUETAP_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Serve.History = n
		}
	}
	if v := os.Getenv("ISSUETAP_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("ISSUETAP_TRACE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Trace.Capacity = n
		}
	}
}

// applyFlags applies command-line flag overrides (highest priority).
func applyFlags(cfg *Config, flags *FlagOverrides) {
	if flags.DebuggerURL != nil {
		cfg.Chrome.DebuggerURL = *flags.DebuggerURL
	}
	if flags.Bin != nil {
		cfg.Chrome.Bin = *flags.Bin
	}
	if flags.Headless != nil {
		cfg.Chrome.Headless = *flags.Headless
	}
	if flags.Duration != nil {
		cfg.Observe.Duration = *flags.Duration
	}
	if flags.Settle != nil {
		cfg.Observe.Settle = *flags.Settle
	}
	if flags.Listen != nil {
		cfg.Serve.Listen = *flags.Listen
	}
	if flags.Interval != nil {
		cfg.Serve.Interval = *flags.Interval
	}
	if flags.Format != nil {
		cfg.Output.Format = *flags.Format
	}
	if flags.TraceCapacity != nil {
		cfg.Trace.Capacity = *flags.TraceCapacity
	}
}

// Validate checks that configuration values are within acceptable
// ranges.
func (c Config) Validate() error {
	if c.Observe.Duration <= 0 {
		return fmt.Errorf("observe.duration must be positive, got %s", c.Observe.Duration)
	}
	if c.Observe.Settle < 0 {
		return fmt.Errorf("observe.settle must not be negative, got %s", c.Observe.Settle)
	}
	if c.Chrome.PageTimeout <= 0 {
		return fmt.Errorf("chrome.page_timeout must be positive, got %s", c.Chrome.PageTimeout)
	}
	if c.Serve.Listen == "" {
		return fmt.Errorf("serve.listen must not be empty")
	}
	if c.Serve.Interval <= 0 {
		return fmt.Errorf("serve.interval must be positive, got %s", c.Serve.Interval)
	}
	if c.Serve.History < 1 {
		return fmt.Errorf("serve.history must be at least 1, got %d", c.Serve.History)
	}
	if c.Trace.Capacity < 1 {
		return fmt.Errorf("trace.capacity must be at least 1, got %d", c.Trace.Capacity)
	}
	switch c.Output.Format {
	case "json", "summary":
	default:
		return fmt.Errorf("output.format must be json or summary, got %q", c.Output.Format)
	}
	return nil
}
