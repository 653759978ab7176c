// Package config defines the runtime configuration for the SDK: worker
// discovery settings on Secret Network, the API key, and the retry and
// timeout policies applied to every network call site. Values come from
// explicit fields, environment variables, or built-in defaults, in that order.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// Environment variable names recognized by the SDK.
const (
	// EnvAPIKey supplies the Secret AI API key.
	EnvAPIKey = "SECRET_AI_API_KEY"
	// EnvChainID selects the Secret Network chain.
	EnvChainID = "SECRET_CHAIN_ID"
	// EnvNodeURL points at the LCD REST endpoint of a Secret node.
	EnvNodeURL = "SECRET_NODE_URL"
	// EnvWorkerContract is the address of the worker-management smart contract.
	EnvWorkerContract = "SECRET_WORKER_SMART_CONTRACT"

	// EnvMaxRetries overrides the retry budget (attempts = value + 1).
	EnvMaxRetries = "SECRET_AI_MAX_RETRIES"
	// EnvRetryDelay overrides the initial backoff delay, in seconds.
	EnvRetryDelay = "SECRET_AI_RETRY_DELAY"
	// EnvRetryBackoff overrides the backoff multiplier.
	EnvRetryBackoff = "SECRET_AI_RETRY_BACKOFF"
	// EnvMaxRetryDelay overrides the backoff cap, in seconds.
	EnvMaxRetryDelay = "SECRET_AI_MAX_RETRY_DELAY"
	// EnvRequestTimeout overrides the per-attempt request timeout, in seconds.
	EnvRequestTimeout = "SECRET_AI_REQUEST_TIMEOUT"
	// EnvConnectTimeout overrides the connection timeout, in seconds.
	EnvConnectTimeout = "SECRET_AI_CONNECT_TIMEOUT"
)

// Built-in defaults, used when neither an explicit value nor an environment
// variable is present.
const (
	DefaultChainID        = "pulsar-3"
	DefaultNodeURL        = "https://pulsar.lcd.secretnodes.com"
	DefaultWorkerContract = "secret18cy3cgnmkft3ayma4nr37wgtj4faxfnrnngrlq"

	DefaultMaxRetries        = 3
	DefaultInitialDelay      = 1 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultMaxDelay          = 30 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
	DefaultConnectTimeout    = 10 * time.Second
)

// RetryConfig holds the retry policy applied to a call site. Total attempts
// performed per call is MaxRetries + 1. The struct is treated as immutable
// once handed to a client.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt (>= 0).
	MaxRetries int
	// InitialDelay is the wait before the first retry (>= 0).
	InitialDelay time.Duration
	// BackoffMultiplier scales the delay after each attempt (>= 1).
	BackoffMultiplier float64
	// MaxDelay caps the backoff (>= InitialDelay).
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the retry policy sourced from the environment,
// falling back to the built-in defaults for unset variables.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        envInt(EnvMaxRetries, DefaultMaxRetries),
		InitialDelay:      envSeconds(EnvRetryDelay, DefaultInitialDelay),
		BackoffMultiplier: envFloat(EnvRetryBackoff, DefaultBackoffMultiplier),
		MaxDelay:          envSeconds(EnvMaxRetryDelay, DefaultMaxDelay),
	}
}

// Validate checks that every field is within its domain. It returns a
// *sdkerr.ConfigError describing the first violation found.
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return sdkerr.NewConfigError("max retries must be non-negative, got %d", c.MaxRetries)
	}
	if c.InitialDelay < 0 {
		return sdkerr.NewConfigError("initial delay must be non-negative, got %s", c.InitialDelay)
	}
	if c.BackoffMultiplier < 1 {
		return sdkerr.NewConfigError("backoff multiplier must be >= 1, got %g", c.BackoffMultiplier)
	}
	if c.MaxDelay < c.InitialDelay {
		return sdkerr.NewConfigError("max delay %s is below initial delay %s", c.MaxDelay, c.InitialDelay)
	}
	return nil
}

// TimeoutConfig bounds a single attempt; it is independent of the retry
// budget, which has no wall-clock bound of its own.
type TimeoutConfig struct {
	// Request bounds one full request/response round trip.
	Request time.Duration
	// Connect bounds establishing the connection.
	Connect time.Duration
}

// DefaultTimeoutConfig returns the timeouts sourced from the environment,
// falling back to the built-in defaults.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Request: envSeconds(EnvRequestTimeout, DefaultRequestTimeout),
		Connect: envSeconds(EnvConnectTimeout, DefaultConnectTimeout),
	}
}

// Validate checks the timeout domains.
func (c TimeoutConfig) Validate() error {
	if c.Request < 0 {
		return sdkerr.NewConfigError("request timeout must be non-negative, got %s", c.Request)
	}
	if c.Connect < 0 {
		return sdkerr.NewConfigError("connect timeout must be non-negative, got %s", c.Connect)
	}
	return nil
}

// Config holds all SDK settings. Zero values are filled by Validate; the
// struct is read-only after it is passed to sdk.New.
type Config struct {
	// ChainID selects the Secret Network chain (default pulsar-3).
	ChainID string
	// NodeURL is the LCD REST endpoint of a Secret node.
	NodeURL string
	// WorkerContract is the worker-management smart contract address.
	WorkerContract string
	// APIKey authenticates against Secret AI workers. Falls back to the
	// SECRET_AI_API_KEY environment variable when empty. Clients that need it
	// fail construction with a ConfigError when neither is set.
	APIKey string

	// DisableResilience selects the basic (single-attempt) LLM client instead
	// of the retrying one.
	DisableResilience bool
	// DisableValidation turns response validation into a no-op.
	DisableValidation bool

	// Retry is the retry policy shared by all call sites. Budgets remain
	// per call; see pkg/retry.
	Retry RetryConfig
	// Timeouts bounds individual attempts.
	Timeouts TimeoutConfig

	// Logger receives retry warnings and exhaustion errors. Defaults to a
	// no-op logger; pass zap.L() to opt into the process-wide logger.
	Logger *zap.Logger
}

// Load reads optional .env files (missing files are skipped), then builds a
// Config from the environment with defaults applied.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, &sdkerr.ConfigError{Msg: "loading " + f, Cause: err}
		}
	}

	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration: unset fields are filled from the
// environment or from built-in defaults, and the retry/timeout domains are
// checked. Returns a *sdkerr.ConfigError on the first violation.
func (c *Config) Validate() error {
	if c.ChainID == "" {
		c.ChainID = envString(EnvChainID, DefaultChainID)
	}
	if c.NodeURL == "" {
		c.NodeURL = envString(EnvNodeURL, DefaultNodeURL)
	}
	if c.WorkerContract == "" {
		c.WorkerContract = envString(EnvWorkerContract, DefaultWorkerContract)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	if c.Retry == (RetryConfig{}) {
		c.Retry = DefaultRetryConfig()
	}
	if c.Timeouts == (TimeoutConfig{}) {
		c.Timeouts = DefaultTimeoutConfig()
	}

	if err := c.Retry.Validate(); err != nil {
		return err
	}
	return c.Timeouts.Validate()
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(name string, fallback float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// envSeconds parses a variable holding a number of seconds (integers and
// fractions are both accepted, matching the platform convention).
func envSeconds(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fallback
	}
	return time.Duration(f * float64(time.Second))
}
