package assist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// CredentialProvider resolves an API key. An empty key with a nil error means
// the provider has nothing to offer and the next one should be tried.
type CredentialProvider interface {
	APIKey() (string, error)
}

// CredentialFunc adapts a function to CredentialProvider.
type CredentialFunc func() (string, error)

func (f CredentialFunc) APIKey() (string, error) { return f() }

// EnvProvider reads the key from an environment variable.
func EnvProvider(name string) CredentialProvider {
	return CredentialFunc(func() (string, error) {
		return strings.TrimSpace(os.Getenv(name)), nil
	})
}

// StaticProvider always returns key.
func StaticProvider(key string) CredentialProvider {
	return CredentialFunc(func() (string, error) {
		return strings.TrimSpace(key), nil
	})
}

type secretsFile struct {
	GroqAPIKey string `toml:"GROQ_API_KEY"`
	Groq       struct {
		APIKey string `toml:"api_key"`
	} `toml:"groq"`
}

// SecretsFileProvider reads a TOML secrets file. A top-level GROQ_API_KEY wins
// over a [groq] api_key table entry. A missing file or empty path yields no key.
func SecretsFileProvider(path string) CredentialProvider {
	return CredentialFunc(func() (string, error) {
		if path == "" {
			return "", nil
		}

		var secrets secretsFile
		_, err := toml.DecodeFile(path, &secrets)
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("read secrets file %s: %w", path, err)
		}

		if key := strings.TrimSpace(secrets.GroqAPIKey); key != "" {
			return key, nil
		}
		return strings.TrimSpace(secrets.Groq.APIKey), nil
	})
}

// resolveKey walks the providers in order and returns the first non-empty key.
// Provider errors are skipped so a broken secrets file does not mask a later source.
func resolveKey(explicit string, providers []CredentialProvider) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}

	var errs []error
	for _, p := range providers {
		key, err := p.APIKey()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if key != "" {
			return key, nil
		}
	}

	if len(errs) > 0 {
		return "", fmt.Errorf("%w (%w)", ErrMissingCredential, errors.Join(errs...))
	}
	return "", ErrMissingCredential
}
