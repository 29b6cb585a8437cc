package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "mainnet", c.Network)
	assert.Empty(t, c.Node)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3, c.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, c.RetryBackoff)
	assert.Equal(t, "authkey:issuers", c.IssuerRedisKey)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.False(t, c.TrustProxy)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CONFIG_PORT", "9000")
	t.Setenv("ARK_NETWORK", "devnet")
	t.Setenv("ARK_NODE", "http://node.test:4002")
	t.Setenv("ARK_REQUEST_TIMEOUT", "3s")
	t.Setenv("TRUSTED_ISSUERS", "02aa,03bb")
	t.Setenv("PUBLIC_URL", "https://verify.example.com/")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "devnet", c.Network)
	assert.Equal(t, "http://node.test:4002", c.Node)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
	assert.Equal(t, []string{"02aa", "03bb"}, c.TrustedIssuers)
	assert.Equal(t, "https://verify.example.com", c.PublicURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown network", "ARK_NETWORK", "testnet"},
		{"negative retries", "ARK_MAX_RETRIES", "-1"},
		{"zero timeout", "ARK_REQUEST_TIMEOUT", "0s"},
		{"bad duration", "ARK_RETRY_BACKOFF", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestInitAndGet(t *testing.T) {
	t.Setenv("CONFIG_PORT", "9100")
	require.NoError(t, Init())
	t.Cleanup(func() { cfg = nil })

	assert.Equal(t, "9100", GetPort())
	assert.Equal(t, "http://localhost:8080", GetPublicURL())
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	cfg = nil
	assert.Panics(t, func() { Get() })
}
