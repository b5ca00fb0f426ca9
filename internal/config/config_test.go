package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, DefaultWebPort, cfg.Web.ListenPort)
	assert.Equal(t, SourceCSV, cfg.Records.Source)
	assert.Equal(t, "utf-8", cfg.Records.Charset)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *MainConfig)
		wantErr string
	}{
		{
			name:    "port too low",
			mutate:  func(c *MainConfig) { c.Web.ListenPort = 80 },
			wantErr: "invalid port number",
		},
		{
			name:    "ssl without cert",
			mutate:  func(c *MainConfig) { c.Web.SSL = true },
			wantErr: "cert_file or key_file",
		},
		{
			name:    "unknown source",
			mutate:  func(c *MainConfig) { c.Records.Source = "xml" },
			wantErr: "unknown record source",
		},
		{
			name:    "csv without path",
			mutate:  func(c *MainConfig) { c.Records.CSVPath = "" },
			wantErr: "no csv path",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *MainConfig) { c.Records.Source = SourceSQLite; c.Records.SQLitePath = "" },
			wantErr: "no sqlite path",
		},
		{
			name: "ssl with files",
			mutate: func(c *MainConfig) {
				c.Web.SSL = true
				c.Web.CertFile = "cert.pem"
				c.Web.KeyFile = "key.pem"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
