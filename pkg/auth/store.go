package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Environment variable names used by EnvStore.
const (
	EnvConsumerID        = "ZAIM_CONSUMER_ID"
	EnvConsumerSecret    = "ZAIM_CONSUMER_SECRET"
	EnvAccessToken       = "ZAIM_ACCESS_TOKEN"
	EnvAccessTokenSecret = "ZAIM_ACCESS_TOKEN_SECRET"
	EnvOAuthVerifier     = "ZAIM_OAUTH_VERIFIER"
)

// Store persists credentials between runs. Load on an empty store returns
// zero Credentials and no error.
type Store interface {
	Load() (Credentials, error)
	Save(Credentials) error
}

// EnvStore keeps credentials in the process environment.
type EnvStore struct{}

func (EnvStore) Load() (Credentials, error) {
	return Credentials{
		ConsumerKey:       os.Getenv(EnvConsumerID),
		ConsumerSecret:    os.Getenv(EnvConsumerSecret),
		AccessToken:       os.Getenv(EnvAccessToken),
		AccessTokenSecret: os.Getenv(EnvAccessTokenSecret),
		Verifier:          os.Getenv(EnvOAuthVerifier),
	}, nil
}

// Save sets the non-empty fields; empty fields leave the variable untouched.
func (EnvStore) Save(c Credentials) error {
	for name, value := range envPairs(c) {
		if value == "" {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}
	return nil
}

// Exports renders shell export lines for the non-empty fields of c.
func Exports(c Credentials) string {
	var b strings.Builder
	for _, name := range []string{EnvConsumerID, EnvConsumerSecret, EnvAccessToken, EnvAccessTokenSecret, EnvOAuthVerifier} {
		if v := envPairs(c)[name]; v != "" {
			fmt.Fprintf(&b, "export %s=%q\n", name, v)
		}
	}
	return b.String()
}

func envPairs(c Credentials) map[string]string {
	return map[string]string{
		EnvConsumerID:        c.ConsumerKey,
		EnvConsumerSecret:    c.ConsumerSecret,
		EnvAccessToken:       c.AccessToken,
		EnvAccessTokenSecret: c.AccessTokenSecret,
		EnvOAuthVerifier:     c.Verifier,
	}
}

// FileStore keeps credentials in a YAML file readable only by the owner.
type FileStore struct {
	Path string
}

func (s FileStore) Load() (Credentials, error) {
	var c Credentials
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return c, nil
}

// Save merges c over the stored values and rewrites the file.
func (s FileStore) Save(c Credentials) error {
	current, err := s.Load()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c.Merge(current))
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create credentials dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// MemoryStore keeps credentials in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	creds Credentials
}

func (s *MemoryStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *MemoryStore) Save(c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = c.Merge(s.creds)
	return nil
}
