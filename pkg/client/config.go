package client

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/vctt94/bisonbotkit/logging"

	"github.com/vctt94/unoserver/pkg/utils"
)

// Config holds everything a Client needs to connect to a game server
type Config struct {
	// ServerAddr is the server's host:port, or a full ws:// URL
	ServerAddr string

	// Name is the display name announced on connect
	Name string

	// DataDir is where the client keeps its logs
	DataDir string

	// DebugLevel sets logging verbosity: trace, debug, info, warn, error
	DebugLevel string

	// Notifications receives the demuxed server events. Required.
	Notifications *NotificationManager
}

// DefaultConfig returns a client config with sane defaults
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: "127.0.0.1:8080",
		DataDir:    filepath.Join(os.TempDir(), "unoclient"),
		DebugLevel: "info",
	}
}

// validate fills defaults and rejects configs the client cannot run with
func (cfg *Config) validate() error {
	if cfg.Notifications == nil {
		return fmt.Errorf("notification manager cannot be nil - client startup aborted")
	}
	if cfg.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultConfig().DataDir
	}
	if cfg.DebugLevel == "" {
		cfg.DebugLevel = "info"
	}
	return nil
}

// wsURL resolves the server address into the websocket endpoint URL,
// accepting either host:port or a ws:// / wss:// URL.
func (cfg *Config) wsURL() (string, error) {
	if u, err := url.Parse(cfg.ServerAddr); err == nil && (u.Scheme == "ws" || u.Scheme == "wss") {
		if u.Path == "" || u.Path == "/" {
			u.Path = "/ws"
		}
		if cfg.Name != "" {
			q := u.Query()
			q.Set("name", cfg.Name)
			u.RawQuery = q.Encode()
		}
		return u.String(), nil
	}

	u := url.URL{Scheme: "ws", Host: cfg.ServerAddr, Path: "/ws"}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server address %q", cfg.ServerAddr)
	}
	if cfg.Name != "" {
		u.RawQuery = url.Values{"name": []string{cfg.Name}}.Encode()
	}
	return u.String(), nil
}

// newLogBackend builds the rotating-file log backend under the datadir
func (cfg *Config) newLogBackend() (*logging.LogBackend, error) {
	if err := utils.EnsureDataDirExists(cfg.DataDir); err != nil {
		return nil, err
	}
	return logging.NewLogBackend(logging.LogConfig{
		LogFile:     filepath.Join(cfg.DataDir, "logs", "client.log"),
		DebugLevel:  cfg.DebugLevel,
		MaxLogFiles: 5,
	})
}
