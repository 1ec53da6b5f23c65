package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

const DefaultFile = "truffle.yaml"

type Config struct {
	Relay     RelayConfig     `koanf:"relay"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Mock      MockConfig      `koanf:"mock"`
	Log       LogConfig       `koanf:"log"`
}

type RelayConfig struct {
	// URL is the relay endpoint outbound discovery fetches go through. Empty means direct.
	URL  string `koanf:"url"`
	Addr string `koanf:"addr"`
}

type DiscoveryConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user-agent"`
}

type MockConfig struct {
	// Seed 0 seeds from the clock.
	Seed                uint64  `koanf:"seed"`
	OptionalProbability float64 `koanf:"optional-probability"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

var defaults = map[string]any{
	"relay.addr":                "localhost:8787",
	"discovery.timeout":         "10s",
	"mock.optional-probability": 0.7,
	"log.level":                 "info",
	"log.format":                "text",
}

// flagKeys maps flag names to config keys. Only flags the user changed are applied.
var flagKeys = map[string]string{
	"relay-url":            "relay.url",
	"addr":                 "relay.addr",
	"timeout":              "discovery.timeout",
	"user-agent":           "discovery.user-agent",
	"seed":                 "mock.seed",
	"optional-probability": "mock.optional-probability",
	"log-level":            "log.level",
	"log-format":           "log.format",
}

// BindCommonFlags binds the flags shared by every command.
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: truffle.yaml)")
	flags.String("relay-url", "", "Relay endpoint for outbound fetches, e.g. http://localhost:8787/relay")
	flags.Duration("timeout", 10*time.Second, "Timeout for each discovery attempt")
	flags.String("user-agent", "", "User-Agent sent with discovery requests")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile := flagString(cmd, "config")
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func flagString(cmd *cobra.Command, name string) string {
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
		return v
	}
	return ""
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		if f == nil || !f.Changed {
			continue
		}
		m[key] = f.Value.String()
	}

	return m
}

func (c *Config) Validate() error {
	if c.Discovery.Timeout <= 0 {
		return fmt.Errorf("discovery timeout must be positive, got %s", c.Discovery.Timeout)
	}

	if p := c.Mock.OptionalProbability; p < 0 || p > 1 {
		return fmt.Errorf("invalid optional probability: %g (valid: 0 to 1)", p)
	}

	if c.Relay.URL != "" {
		u, err := url.Parse(c.Relay.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid relay url: %s (must be an absolute http(s) URL)", c.Relay.URL)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.Log.Format)
	}

	return nil
}
