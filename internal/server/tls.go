package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/caddyserver/certmagic"
)

// CertMagicConfig configures automatic certificate management with CertMagic.
type CertMagicConfig struct {
	Domains    []string
	Email      string
	StorageDir string // defaults to XDG or ~/.cache/genieblog/certmagic
	CA         string // defaults to Let's Encrypt production
}

// BuildCertMagicTLS provisions or loads certificates for the configured
// domains and returns a TLS config plus the HTTP-01 challenge handler.
func BuildCertMagicTLS(ctx context.Context, cfg CertMagicConfig) (*tls.Config, http.Handler, error) {
	if len(cfg.Domains) == 0 {
		return nil, nil, errors.New("at least one domain is required")
	}

	cm := certmagic.NewDefault()
	if cfg.StorageDir == "" {
		cfg.StorageDir = DefaultCertDir()
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("cert storage: %w", err)
	}
	cm.Storage = &certmagic.FileStorage{Path: cfg.StorageDir}

	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:     ifEmpty(cfg.CA, certmagic.LetsEncryptProductionCA),
		Email:  cfg.Email,
		Agreed: true,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, cfg.Domains); err != nil {
		return nil, nil, err
	}
	tlsConf := cm.TLSConfig()
	tlsConf.MinVersion = tls.VersionTLS12
	tlsConf.NextProtos = append([]string{"h2", "http/1.1"}, tlsConf.NextProtos...)
	return tlsConf, issuer.HTTPChallengeHandler(http.NotFoundHandler()), nil
}

// DefaultCertDir is where certificates live when tls.storage_dir is unset.
func DefaultCertDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "genieblog", "certmagic")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "genieblog", "certmagic")
}

func ifEmpty(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// BuildFileTLS loads a certificate from PEM files for BYO certs.
func BuildFileTLS(certFile, keyFile string) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, errors.New("both cert_file and key_file are required")
	}
	c, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load keypair: %w", err)
	}
	now := time.Now()
	for i, b := range c.Certificate {
		cert, err := x509.ParseCertificate(b)
		if err != nil {
			return nil, fmt.Errorf("invalid certificate at index %d: %w", i, err)
		}
		if now.Before(cert.NotBefore) {
			return nil, fmt.Errorf("certificate not yet valid (starts %s)", cert.NotBefore)
		}
		if now.After(cert.NotAfter) {
			return nil, fmt.Errorf("certificate expired on %s", cert.NotAfter)
		}
	}
	return &tls.Config{Certificates: []tls.Certificate{c}, MinVersion: tls.VersionTLS12}, nil
}
