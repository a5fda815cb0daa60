package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/format"
)

// AppName names the configuration directory.
const AppName = "commonmeta"

// Config holds user settings. Environment variables override the file.
type Config struct {
	// Depositor, Email and Registrant fill the head of Crossref deposits
	Depositor  string `yaml:"depositor"`
	Email      string `yaml:"email"`
	Registrant string `yaml:"registrant"`

	// Mailto is sent to Crossref and OpenAlex to use their polite pools
	Mailto string `yaml:"mailto"`

	RateLimit  float64       `yaml:"rate_limit"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ConfigPath is where the config file is looked up.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// LoadConfig reads the config file, if any, and applies COMMONMETA_*
// environment overrides.
func LoadConfig() (*Config, error) {
	c := &Config{}
	path, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml"))
	if err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		slog.Debug("loaded config", "path", path)
	}

	envString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envString("COMMONMETA_DEPOSITOR", &c.Depositor)
	envString("COMMONMETA_EMAIL", &c.Email)
	envString("COMMONMETA_REGISTRANT", &c.Registrant)
	envString("COMMONMETA_MAILTO", &c.Mailto)
	if v := os.Getenv("COMMONMETA_RATE_LIMIT"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("COMMONMETA_RATE_LIMIT: %w", err)
		}
		c.RateLimit = rps
	}
	return c, nil
}

// FetchOptions turns the settings into fetch.Client options.
func (c *Config) FetchOptions() []fetch.Option {
	var opts []fetch.Option
	if c.Mailto != "" {
		opts = append(opts, fetch.WithMailto(c.Mailto))
	}
	if c.RateLimit > 0 {
		opts = append(opts, fetch.WithRateLimit(c.RateLimit))
	}
	if c.MaxRetries > 0 {
		opts = append(opts, fetch.WithMaxRetries(c.MaxRetries))
	}
	if c.Timeout > 0 {
		opts = append(opts, fetch.WithTimeout(c.Timeout))
	}
	return opts
}

// SerializeOptions returns writer options with the configured deposit
// head. Empty settings keep the defaults.
func (c *Config) SerializeOptions() *format.SerializeOptions {
	opts := format.NewSerializeOptions()
	if c.Depositor != "" {
		opts.Depositor = c.Depositor
	}
	if c.Email != "" {
		opts.Email = c.Email
	}
	if c.Registrant != "" {
		opts.Registrant = c.Registrant
	}
	return opts
}
