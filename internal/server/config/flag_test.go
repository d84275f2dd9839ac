package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-w", "12", "-t", "24h",
				"-o", "https://blog.example", "-l", "5", "-m", "s3", "-f", "/srv/uploads",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-v", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP: "127.0.0.1:9090",
				DatabaseDSN:      "db",
				SecretKey:        "secret",
				PasswordHashCost: 12,
				TokenTTL:         24 * time.Hour,
				CORSOrigin:       "https://blog.example",
				ListLimit:        5,
				UploadBackend:    "s3",
				UploadDir:        "/srv/uploads",
				S3RootUser:       "user",
				S3RootPassword:   "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
				LogLevel:         "debug",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-env", "x.env", "-d", "memory"},
			expected: &Config{DatabaseDSN: "memory"},
		},
		{
			name:        "bad duration panics",
			args:        []string{"cmd", "-t", "forever"},
			expectPanic: true,
		},
		{
			name:        "bad int panics",
			args:        []string{"cmd", "-l", "many"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
