package infrastructures

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/sirupsen/logrus"
)

// NewRegistryKey loads the registry's RSA private key from the configured
// PEM file. Without a configured path it generates a throwaway key, which
// keeps local development working but invalidates stored payloads across
// restarts.
func NewRegistryKey(cfg *AppConfig) *rsa.PrivateKey {
	path := cfg.REGISTRY_PRIVATE_KEY_PATH
	if path == "" {
		logrus.Warn("REGISTRY_PRIVATE_KEY_PATH not set, generating an ephemeral registry key")
		key, err := rsa.GenerateKey(rand.Reader, 4096)
		if err != nil {
			logrus.Fatalf("failed to generate registry key: %v", err)
		}
		return key
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("failed to read registry key: %v", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		logrus.Fatal("registry key file is not valid PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		logrus.Fatalf("failed to parse registry key: %v", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		logrus.Fatal("registry key is not an RSA key")
	}
	return key
}
