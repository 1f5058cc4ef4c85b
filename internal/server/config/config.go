// Package config handles configuration for the server component:
// defaults, an optional JSON (JSONC) file, environment variables and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

var (
	ErrMissingTokenSecret      = errors.New("token signing secret is not set (JWT_SECRET or -s)")
	ErrMissingEncryptionSecret = errors.New("file encryption secret is not set (ENCRYPTION_KEY or -k)")
)

// Config holds runtime settings for the vault server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - MetricsAddr: bind address for the Prometheus /metrics endpoint; empty disables it.
//   - TokenSecret: HMAC secret for signing bearer tokens (HS256).
//   - EncryptionSecret: secret the file master key is derived from.
//   - TokenValidityDuration: lifetime of a bearer token.
//   - KeyValidityDuration: lifetime of an opaque key bound to a token.
//   - MaxUploadBytes: largest accepted file, also bounds gRPC message size.
//   - SweepInterval: minimum time between full sweeps of expired bindings.
type Config struct {
	EndpointAddrGRPC      string
	MetricsAddr           string
	TokenSecret           string
	EncryptionSecret      string
	TokenValidityDuration time.Duration
	KeyValidityDuration   time.Duration
	MaxUploadBytes        int64
	SweepInterval         time.Duration
}

// LoadDefaults populates Config with development defaults. Secrets are
// deliberately left empty.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.TokenValidityDuration = 24 * time.Hour
	c.KeyValidityDuration = 24 * time.Hour
	c.MaxUploadBytes = common.DefaultMaxUploadBytes
	c.SweepInterval = 10 * time.Minute
}

// Validate fails fast on settings the server cannot run without.
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return ErrMissingTokenSecret
	}
	if c.EncryptionSecret == "" {
		return ErrMissingEncryptionSecret
	}
	if c.EndpointAddrGRPC == "" {
		return errors.New("gRPC endpoint address is empty")
	}
	if c.TokenValidityDuration <= 0 || c.KeyValidityDuration <= 0 {
		return fmt.Errorf("validity durations must be positive (token %s, key %s)",
			c.TokenValidityDuration, c.KeyValidityDuration)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then environment variables, then flags, and validates it.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.Getenv)
}

func load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg, getenv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
