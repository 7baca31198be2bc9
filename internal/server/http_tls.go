package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"

	"jobparser/internal/config"
)

// configureTLS attaches a server certificate to httpServer when TLS is on
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case "", config.TLSModeDisabled:
		return nil
	case config.TLSModeServer:
		tlsConfig, err := serverTLSConfig(s.TLSConfig)
		if err != nil {
			return fmt.Errorf("failed to set up TLS: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
		return nil
	default:
		return fmt.Errorf("invalid TLS mode %q", s.TLSConfig.Mode)
	}
}

func serverTLSConfig(t config.TLSConfig) (*tls.Config, error) {
	minVersion, err := t.MinTLSVersion()
	if err != nil {
		return nil, err
	}

	certPEM, err := pemSource("certificate", t.CertContent, t.CertFile)
	if err != nil {
		return nil, err
	}
	keyPEM, err := pemSource("private key", t.KeyContent, t.KeyFile)
	if err != nil {
		return nil, err
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid server certificate or key: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}, nil
}

// pemSource returns inline PEM content, or reads it from file
func pemSource(what, content, file string) ([]byte, error) {
	if content != "" {
		return []byte(content), nil
	}
	if file == "" {
		return nil, fmt.Errorf("no TLS %s configured", what)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read TLS %s: %w", what, err)
	}
	return data, nil
}
