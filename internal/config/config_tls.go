package config

import (
	"crypto/tls"
	"fmt"
)

const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
)

// Enabled reports whether the API server terminates TLS itself
func (t TLSConfig) Enabled() bool {
	return t.Mode == TLSModeServer
}

// MinTLSVersion maps minVersion to its crypto/tls constant. TLS 1.2 when unset.
func (t TLSConfig) MinTLSVersion() (uint16, error) {
	switch t.MinVersion {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("invalid TLS minVersion %q (must be 1.2 or 1.3)", t.MinVersion)
	}
}

// ValidateTLSConfig checks the server TLS settings. In server mode the
// certificate and the key each need exactly one source: a file or inline PEM
// content (usually from Vault).
func (c *Config) ValidateTLSConfig() error {
	t := c.Server.TLS

	switch t.Mode {
	case "", TLSModeDisabled:
	case TLSModeServer:
		sources := []struct{ what, file, content string }{
			{"certificate", t.CertFile, t.CertContent},
			{"private key", t.KeyFile, t.KeyContent},
		}
		for _, src := range sources {
			switch {
			case src.file == "" && src.content == "":
				return fmt.Errorf("TLS %s is required in server mode (set a file or inline content)", src.what)
			case src.file != "" && src.content != "":
				return fmt.Errorf("TLS %s is set both as a file and as content, choose one", src.what)
			}
		}
	default:
		return fmt.Errorf("invalid TLS mode %q (must be %q or %q)", t.Mode, TLSModeDisabled, TLSModeServer)
	}

	_, err := t.MinTLSVersion()
	return err
}
