package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/decred/dcrd/dcrutil/v4"
)

// Config holds the server configuration. Values come from defaults,
// then the optional TOML config file, then command-line flags.
// Durations appear in the file as strings ("3s", "1m") and are parsed
// into the typed fields after decoding.
type Config struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	DataDir    string `toml:"datadir"`
	DBPath     string `toml:"db"`
	DebugLevel string `toml:"debuglevel"`
	Seed       int64  `toml:"seed"`
	MaxPlayers int    `toml:"maxplayers"`
	MinPlayers int    `toml:"minplayers"`

	AutoStartDelayRaw string `toml:"autostartdelay"`
	StatsIntervalRaw  string `toml:"statsinterval"`

	AutoStartDelay time.Duration `toml:"-"`
	StatsInterval  time.Duration `toml:"-"`
}

// DefaultConfig returns the configuration defaults. The data directory
// follows the dcrd application-dir convention for the platform.
func DefaultConfig() *Config {
	appData := dcrutil.AppDataDir("unosrv", false)
	return &Config{
		Host:              "127.0.0.1",
		Port:              8080,
		DataDir:           appData,
		DBPath:            filepath.Join(appData, "uno.sqlite"),
		DebugLevel:        "info",
		MaxPlayers:        6,
		MinPlayers:        2,
		AutoStartDelayRaw: "3s",
		AutoStartDelay:    3 * time.Second,
		StatsIntervalRaw:  "5m",
		StatsInterval:     5 * time.Minute,
	}
}

// LoadConfig reads a TOML config file over the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseDurations() error {
	if c.AutoStartDelayRaw != "" {
		d, err := time.ParseDuration(c.AutoStartDelayRaw)
		if err != nil {
			return fmt.Errorf("invalid autostartdelay: %w", err)
		}
		c.AutoStartDelay = d
	}
	if c.StatsIntervalRaw != "" {
		d, err := time.ParseDuration(c.StatsIntervalRaw)
		if err != nil {
			return fmt.Errorf("invalid statsinterval: %w", err)
		}
		c.StatsInterval = d
	}
	return nil
}

// EnsureDataDir creates the configured data directory if needed
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0700)
}

// ListenAddr returns the host:port the server binds
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
