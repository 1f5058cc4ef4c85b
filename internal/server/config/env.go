package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variables read by parseEnv. JWT_SECRET and ENCRYPTION_KEY are
// the usual way to hand secrets to the server.
const (
	EnvGRPCAddr         = "VAULT_GRPC_ADDR"
	EnvMetricsAddr      = "VAULT_METRICS_ADDR"
	EnvTokenSecret      = "JWT_SECRET"
	EnvEncryptionSecret = "ENCRYPTION_KEY"
	EnvTokenValidity    = "VAULT_TOKEN_VALIDITY"
	EnvKeyValidity      = "VAULT_KEY_VALIDITY"
	EnvMaxUploadBytes   = "VAULT_MAX_UPLOAD_BYTES"
	EnvSweepInterval    = "VAULT_SWEEP_INTERVAL"
)

func parseEnv(config *Config, getenv func(string) string) error {
	setString(&config.EndpointAddrGRPC, getenv(EnvGRPCAddr))
	setString(&config.MetricsAddr, getenv(EnvMetricsAddr))
	setString(&config.TokenSecret, getenv(EnvTokenSecret))
	setString(&config.EncryptionSecret, getenv(EnvEncryptionSecret))

	for name, dst := range map[string]*time.Duration{
		EnvTokenValidity: &config.TokenValidityDuration,
		EnvKeyValidity:   &config.KeyValidityDuration,
		EnvSweepInterval: &config.SweepInterval,
	} {
		if v := getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = d
		}
	}

	if v := getenv(EnvMaxUploadBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxUploadBytes, err)
		}
		config.MaxUploadBytes = n
	}
	return nil
}
