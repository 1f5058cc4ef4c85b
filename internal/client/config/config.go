package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

const sessionFileName = "session.json"

// Config holds runtime settings for the vault CLI.
type Config struct {
	ServerEndpointAddr string
	SessionFile        string
	RequestTimeout     time.Duration
	// MaxUploadBytes mirrors the server limit and sizes gRPC messages.
	MaxUploadBytes     int64
}

// LoadDefaults populates c with sensible defaults. The session file lives in
// the user config directory when one can be determined.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.SessionFile = defaultSessionFile()
	c.RequestTimeout = 30 * time.Second
	c.MaxUploadBytes = common.DefaultMaxUploadBytes
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return sessionFileName
	}
	return filepath.Join(dir, "gophvault", sessionFileName)
}

// LoadConfig builds a Config from defaults, the JSON file and flags found in
// args, in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
