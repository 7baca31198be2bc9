package config

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name     string
		tls      TLSConfig
		errorMsg string
	}{
		{name: "unset mode", tls: TLSConfig{}},
		{name: "disabled mode", tls: TLSConfig{Mode: "disabled"}},
		{
			name: "server mode with files",
			tls:  TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem"},
		},
		{
			name: "server mode with vault content",
			tls:  TLSConfig{Mode: "server", CertContent: "CERT", KeyContent: "KEY", MinVersion: "1.3"},
		},
		{
			name: "certificate file with inline key",
			tls:  TLSConfig{Mode: "server", CertFile: "/c.pem", KeyContent: "KEY"},
		},
		{
			name:     "server mode without key",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem"},
			errorMsg: "TLS private key is required",
		},
		{
			name:     "cert from both file and content",
			tls:      TLSConfig{Mode: "server", CertFile: "/c.pem", CertContent: "CERT", KeyFile: "/k.pem"},
			errorMsg: "TLS certificate is set both as a file and as content",
		},
		{
			name:     "key from both file and content",
			tls:      TLSConfig{Mode: "server", CertFile: "/c.pem", KeyFile: "/k.pem", KeyContent: "KEY"},
			errorMsg: "TLS private key is set both",
		},
		{
			name:     "mutual mode is not offered",
			tls:      TLSConfig{Mode: "mutual", CertFile: "/c.pem", KeyFile: "/k.pem"},
			errorMsg: `invalid TLS mode "mutual"`,
		},
		{
			name:     "old TLS version",
			tls:      TLSConfig{Mode: "disabled", MinVersion: "1.1"},
			errorMsg: `invalid TLS minVersion "1.1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Server: ServerConfig{TLS: tt.tls}}
			err := c.ValidateTLSConfig()

			if tt.errorMsg != "" {
				assert.ErrorContains(t, err, tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMinTLSVersion(t *testing.T) {
	for input, want := range map[string]uint16{"": tls.VersionTLS12, "1.2": tls.VersionTLS12, "1.3": tls.VersionTLS13} {
		got, err := TLSConfig{MinVersion: input}.MinTLSVersion()
		assert.NoError(t, err)
		assert.Equal(t, want, got, "minVersion %q", input)
	}
}
