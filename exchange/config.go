package exchange

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type APIKeyPair struct {
	Domain     string `json:"domain"`
	PassPhrase string `json:"passphrase"`
	ApiKey     string `json:"apiKey"`
	SecretKey  string `json:"secretKey"`
}

// environment variables holding the OKX credentials
const (
	EnvApiKey     = "OKX_API_KEY"
	EnvSecretKey  = "OKX_SECRET_KEY"
	EnvPassPhrase = "OKX_PASSPHRASE"
	EnvHost       = "OKX_HOST"
)

// FromEnv reads the key pair from the environment. A .env file in the
// working directory is honored. Values are trimmed, a trailing space in
// a pasted key breaks the signature.
func FromEnv() APIKeyPair {
	_ = godotenv.Load()
	return APIKeyPair{
		Domain:     strings.TrimSpace(os.Getenv(EnvHost)),
		PassPhrase: strings.TrimSpace(os.Getenv(EnvPassPhrase)),
		ApiKey:     strings.TrimSpace(os.Getenv(EnvApiKey)),
		SecretKey:  strings.TrimSpace(os.Getenv(EnvSecretKey)),
	}
}

// Merge fills the blank fields of p from other.
func (p APIKeyPair) Merge(other APIKeyPair) APIKeyPair {
	if p.Domain == "" {
		p.Domain = other.Domain
	}
	if p.PassPhrase == "" {
		p.PassPhrase = other.PassPhrase
	}
	if p.ApiKey == "" {
		p.ApiKey = other.ApiKey
	}
	if p.SecretKey == "" {
		p.SecretKey = other.SecretKey
	}
	return p
}

// Trim removes surrounding whitespace from every field.
func (p APIKeyPair) Trim() APIKeyPair {
	p.Domain = strings.TrimSpace(p.Domain)
	p.PassPhrase = strings.TrimSpace(p.PassPhrase)
	p.ApiKey = strings.TrimSpace(p.ApiKey)
	p.SecretKey = strings.TrimSpace(p.SecretKey)
	return p
}

// Validate names every missing credential by its environment variable,
// so the error tells the user exactly what to export.
func (p APIKeyPair) Validate() error {
	var missing []string
	if p.ApiKey == "" {
		missing = append(missing, EnvApiKey)
	}
	if p.SecretKey == "" {
		missing = append(missing, EnvSecretKey)
	}
	if p.PassPhrase == "" {
		missing = append(missing, EnvPassPhrase)
	}
	if len(missing) > 0 {
		return errors.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

const (
	CollSnapshot = "snapshots"
)

const (
	GET  = "GET"
	POST = "POST"
)
