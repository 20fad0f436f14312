package bot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the bot's settings
type Config struct {
	// ServerAddr is the game server's host:port
	ServerAddr string

	// Name is the display name the bot announces
	Name string

	// DataDir is where the bot keeps its logs
	DataDir string

	// DebugLevel sets logging verbosity
	DebugLevel string

	// GameID is the room to join; 0 means join the first open room,
	// creating one if the lobby is empty.
	GameID int64

	// ThinkDelay is how long the bot pretends to think before acting
	// on its turn. Zero means act immediately.
	ThinkDelay time.Duration
}

// DefaultConfig returns a bot config with sane defaults
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: "127.0.0.1:8080",
		Name:       "unobot",
		DataDir:    filepath.Join(os.TempDir(), "unobot"),
		DebugLevel: "info",
		ThinkDelay: 500 * time.Millisecond,
	}
}

// Validate fills defaults and rejects unusable configs
func (cfg *Config) Validate() error {
	if cfg.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if cfg.Name == "" {
		cfg.Name = "unobot"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultConfig().DataDir
	}
	if cfg.DebugLevel == "" {
		cfg.DebugLevel = "info"
	}
	if cfg.ThinkDelay < 0 {
		return fmt.Errorf("think delay cannot be negative")
	}
	return nil
}
