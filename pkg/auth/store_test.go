package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsMerge(t *testing.T) {
	explicit := Credentials{ConsumerKey: "explicit-key"}
	fallback := Credentials{ConsumerKey: "env-key", ConsumerSecret: "env-secret", AccessToken: "env-token"}

	got := explicit.Merge(fallback)

	assert.Equal(t, "explicit-key", got.ConsumerKey)
	assert.Equal(t, "env-secret", got.ConsumerSecret)
	assert.Equal(t, "env-token", got.AccessToken)
	assert.Empty(t, got.AccessTokenSecret)
	assert.False(t, got.HasAccessToken())
}

func TestEnvStore(t *testing.T) {
	t.Setenv(EnvConsumerID, "")
	t.Setenv(EnvConsumerSecret, "secret")
	t.Setenv(EnvAccessToken, "")
	t.Setenv(EnvAccessTokenSecret, "")
	t.Setenv(EnvOAuthVerifier, "")

	store := EnvStore{}
	require.NoError(t, store.Save(Credentials{ConsumerKey: "key", AccessToken: "token"}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "key", got.ConsumerKey)
	assert.Equal(t, "secret", got.ConsumerSecret)
	assert.Equal(t, "token", got.AccessToken)
	assert.Equal(t, "token", os.Getenv(EnvAccessToken))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
	store := FileStore{Path: path}

	t.Run("missing file loads empty", func(t *testing.T) {
		got, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, Credentials{}, got)
	})

	t.Run("save merges over existing values", func(t *testing.T) {
		require.NoError(t, store.Save(Credentials{ConsumerKey: "key", ConsumerSecret: "secret"}))
		require.NoError(t, store.Save(Credentials{AccessToken: "token", AccessTokenSecret: "token-secret"}))

		got, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, Credentials{
			ConsumerKey:       "key",
			ConsumerSecret:    "secret",
			AccessToken:       "token",
			AccessTokenSecret: "token-secret",
		}, got)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("consumer_id: [unterminated"), 0o600))
		_, err := FileStore{Path: bad}.Load()
		assert.Error(t, err)
	})
}

func TestExports(t *testing.T) {
	out := Exports(Credentials{ConsumerKey: "key", AccessToken: "token"})
	assert.Contains(t, out, `export ZAIM_CONSUMER_ID="key"`)
	assert.Contains(t, out, `export ZAIM_ACCESS_TOKEN="token"`)
	assert.NotContains(t, out, EnvConsumerSecret)
}
