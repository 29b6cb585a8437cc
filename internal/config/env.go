package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Seeds are never part of it: they arrive per request or are prompted for.
type Config struct {
	Port string `envconfig:"CONFIG_PORT" default:"8080"`

	Network        string        `envconfig:"ARK_NETWORK" default:"mainnet"`
	Node           string        `envconfig:"ARK_NODE"`
	RequestTimeout time.Duration `envconfig:"ARK_REQUEST_TIMEOUT" default:"10s"`
	MaxRetries     int           `envconfig:"ARK_MAX_RETRIES" default:"3"`
	RetryBackoff   time.Duration `envconfig:"ARK_RETRY_BACKOFF" default:"250ms"`
	BroadcastPeers int           `envconfig:"ARK_BROADCAST_PEERS" default:"10"`

	TrustedIssuers []string `envconfig:"TRUSTED_ISSUERS"`
	IssuerRedisURL string   `envconfig:"ISSUER_REDIS_URL"`
	IssuerRedisKey string   `envconfig:"ISSUER_REDIS_KEY" default:"authkey:issuers"`

	PublicURL      string   `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	AddRateLimit   float64  `envconfig:"ADD_RATE_LIMIT" default:"1"`
	TrustProxy     bool     `envconfig:"TRUST_PROXY" default:"false"` // take client IPs from X-Forwarded-For / X-Real-Ip

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads and checks the configuration without touching the global instance
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.Network {
	case "mainnet", "devnet":
	default:
		return fmt.Errorf("ARK_NETWORK must be mainnet or devnet, got %q", c.Network)
	}
	if c.MaxRetries < 0 {
		return errors.New("ARK_MAX_RETRIES cannot be negative")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ARK_REQUEST_TIMEOUT must be positive")
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetPublicURL returns the base URL printed on product labels
func GetPublicURL() string {
	return Get().PublicURL
}

// PromptForPassphrase prompts the user for a wallet passphrase in the terminal.
// The passphrase is read without echoing (hidden input).
func PromptForPassphrase(label string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal: pass the passphrase with a flag or run interactively")
	}
	fmt.Fprintf(os.Stderr, "Enter %s: ", label)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	defer clear(raw)

	if len(raw) == 0 {
		return "", fmt.Errorf("%s cannot be empty", label)
	}
	return string(raw), nil
}
