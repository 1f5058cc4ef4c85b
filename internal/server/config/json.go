package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
	"github.com/dmitrijs2005/gophvault/internal/timex"
	"github.com/tidwall/jsonc"
)

// JsonConfig is the on-disk shape of the config file. Comments and trailing
// commas are allowed. Durations accept "24h" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	MetricsAddr           *string        `json:"metrics_addr"`
	TokenSecret           string         `json:"token_secret"`
	EncryptionSecret      string         `json:"encryption_secret"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	KeyValidityDuration   timex.Duration `json:"key_validity_duration"`
	MaxUploadBytes        int64          `json:"max_upload_bytes"`
	SweepInterval         timex.Duration `json:"sweep_interval"`
}

// parseJson overlays values from the file named by -c/-config in args.
// Fields absent from the file keep their current value. MetricsAddr is a
// pointer so an explicit "" can disable the metrics endpoint.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
		return err
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.TokenSecret, c.TokenSecret)
	setString(&config.EncryptionSecret, c.EncryptionSecret)
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.KeyValidityDuration.Duration != 0 {
		config.KeyValidityDuration = c.KeyValidityDuration.Duration
	}
	if c.MaxUploadBytes != 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.SweepInterval.Duration != 0 {
		config.SweepInterval = c.SweepInterval.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
