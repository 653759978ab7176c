package llm

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/retry"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// Client is the public surface for invoking a worker. Both capabilities
// returned by New implement it: the basic single-attempt client and the
// resilient one. Every error returned belongs to the sdkerr taxonomy (or is
// ctx.Err on cancellation); raw transport errors never escape.
type Client interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

type settings struct {
	apiKey    string
	retryCfg  config.RetryConfig
	timeouts  config.TimeoutConfig
	resilient bool
	validate  bool
	log       *zap.Logger
	transport Transport
	sleeper   retry.Sleeper
}

// Option customizes client construction.
type Option func(*settings)

// WithAPIKey sets the API key explicitly, overriding the environment.
func WithAPIKey(key string) Option {
	return func(s *settings) { s.apiKey = key }
}

// WithRetryConfig overrides the environment-sourced retry policy.
func WithRetryConfig(cfg config.RetryConfig) Option {
	return func(s *settings) { s.retryCfg = cfg }
}

// WithTimeouts overrides the environment-sourced per-attempt timeouts.
func WithTimeouts(t config.TimeoutConfig) Option {
	return func(s *settings) { s.timeouts = t }
}

// WithResilience selects between the retrying client (true, the default) and
// the basic single-attempt client.
func WithResilience(enabled bool) Option {
	return func(s *settings) { s.resilient = enabled }
}

// WithValidation toggles response validation (default on).
func WithValidation(enabled bool) Option {
	return func(s *settings) { s.validate = enabled }
}

// WithLogger sets the log sink for retries and validation warnings.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithTransport replaces the HTTP transport. Intended for tests and for
// callers bringing their own wire protocol; the replacement must surface
// sdkerr taxonomy errors.
func WithTransport(t Transport) Option {
	return func(s *settings) { s.transport = t }
}

// WithBlockingWaits makes retry waits thread-blocking instead of cooperative.
func WithBlockingWaits() Option {
	return func(s *settings) { s.sleeper = retry.BlockingSleeper{} }
}

// New builds a worker client for the given endpoint. The returned value is
// polymorphic over the {basic, resilient} capability set, selected once via
// WithResilience.
//
// The API key resolves from the explicit option first, then from the
// SECRET_AI_API_KEY environment variable; if neither yields a value the
// constructor fails with a *sdkerr.ConfigError before any network activity.
// The derived bearer header is fixed for the client's lifetime.
func New(host string, opts ...Option) (Client, error) {
	s := settings{
		retryCfg:  config.DefaultRetryConfig(),
		timeouts:  config.DefaultTimeoutConfig(),
		resilient: true,
		validate:  true,
		log:       zap.NewNop(),
		sleeper:   retry.ContextSleeper{},
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.apiKey == "" {
		s.apiKey = os.Getenv(config.EnvAPIKey)
	}
	if s.apiKey == "" {
		return nil, sdkerr.NewConfigError("missing API key: set %s or pass WithAPIKey", config.EnvAPIKey)
	}

	if err := s.retryCfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.timeouts.Validate(); err != nil {
		return nil, err
	}

	if s.transport == nil {
		s.transport = NewHTTPTransport(host, s.apiKey, s.timeouts, s.log)
	}

	if !s.resilient {
		return &basicClient{transport: s.transport}, nil
	}

	return &resilientClient{
		transport: s.transport,
		retryCfg:  s.retryCfg,
		validator: NewValidator(s.validate, s.log),
		sleeper:   s.sleeper,
		log:       s.log,
	}, nil
}

// basicClient forwards calls to the transport without retries or validation.
// The transport still maps failures into the taxonomy.
type basicClient struct {
	transport Transport
}

func (c *basicClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return c.transport.Generate(ctx, req)
}

func (c *basicClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	return c.transport.Chat(ctx, req)
}
