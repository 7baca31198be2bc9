package server

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobparser/internal/config"
)

func selfSignedPEM(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
}

func TestServerTLSConfig(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t)
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certFile, certPEM, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		tls        config.TLSConfig
		minVersion uint16
		wantErr    string
	}{
		{
			name:       "files",
			tls:        config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: keyFile},
			minVersion: tls.VersionTLS12,
		},
		{
			name:       "inline content",
			tls:        config.TLSConfig{Mode: "server", CertContent: string(certPEM), KeyContent: string(keyPEM), MinVersion: "1.3"},
			minVersion: tls.VersionTLS13,
		},
		{
			name:       "file and inline mixed",
			tls:        config.TLSConfig{Mode: "server", CertFile: certFile, KeyContent: string(keyPEM)},
			minVersion: tls.VersionTLS12,
		},
		{
			name:    "missing key file",
			tls:     config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: filepath.Join(dir, "absent.pem")},
			wantErr: "failed to read TLS private key",
		},
		{
			name:    "key does not match",
			tls:     config.TLSConfig{Mode: "server", CertContent: string(certPEM), KeyContent: "garbage"},
			wantErr: "invalid server certificate or key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serverTLSConfig(tt.tls)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got.Certificates) != 1 || got.MinVersion != tt.minVersion {
				t.Errorf("unexpected TLS config: %d certs, min version %x", len(got.Certificates), got.MinVersion)
			}
		})
	}
}

func TestConfigureTLSDisabled(t *testing.T) {
	s := newTestServer(config.ServerConfig{TLS: config.TLSConfig{Mode: "disabled"}}, &fakeService{})
	httpServer := &http.Server{}
	if err := s.configureTLS(httpServer); err != nil || httpServer.TLSConfig != nil {
		t.Errorf("disabled mode should leave the server plain, got %v", err)
	}

	s.TLSConfig.Mode = "mutual"
	if err := s.configureTLS(httpServer); err == nil {
		t.Error("unknown modes should be rejected")
	}
}

func TestWriteServerInfo(t *testing.T) {
	s := newTestServer(config.ServerConfig{
		Host:        "127.0.0.1",
		Port:        "8080",
		APIKeys:     []string{"secret-key"},
		MaxBodySize: 1024,
		RateLimit:   config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 5, ByIP: true},
	}, &fakeService{})
	defer s.RateLimiter.Close()

	var out bytes.Buffer
	s.writeServerInfo(&out)
	info := out.String()

	for _, want := range []string{
		"listening on http://127.0.0.1:8080",
		"POST /parse",
		"api key",
		"1 keys",
		"1024 bytes",
		"60/min, burst 5, keyed by client ip",
	} {
		if !strings.Contains(info, want) {
			t.Errorf("server info is missing %q:\n%s", want, info)
		}
	}
	if strings.Contains(info, "WARNING") {
		t.Error("no warning expected when API keys are configured")
	}
}
