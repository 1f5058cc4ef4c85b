package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, common.DefaultMaxUploadBytes, c.MaxUploadBytes)
	assert.Equal(t, sessionFileName, filepath.Base(c.SessionFile))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "10.0.0.1:6000", "-f", "/tmp/s.json", "-t", "5", "-u", "1048576", "upload", "x.txt"},
			want: &Config{ServerEndpointAddr: "10.0.0.1:6000", SessionFile: "/tmp/s.json", RequestTimeout: 5 * time.Second, MaxUploadBytes: 1 << 20},
		},
		{
			name: "no flags keeps values",
			args: []string{"list"},
			want: &Config{ServerEndpointAddr: "h:1", SessionFile: "s", RequestTimeout: 7 * time.Second, MaxUploadBytes: 100},
		},
		{
			name:    "bad timeout",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ServerEndpointAddr: "h:1", SessionFile: "s", RequestTimeout: 7 * time.Second, MaxUploadBytes: 100}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, cfg))
		})
	}
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	content := `{
		// remote server
		"server_endpoint_addr": "vault.internal:50051",
		"session_file": "/tmp/from-json.json",
		"request_timeout": "1m",
		"max_upload_bytes": 67108864,
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig([]string{"-c", path, "-f", "/tmp/from-flag.json", "list"})
	require.NoError(t, err)

	assert.Equal(t, "vault.internal:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, "/tmp/from-flag.json", cfg.SessionFile)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
}
