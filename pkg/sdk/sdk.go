// Package sdk exposes the high-level Secret AI SDK entry points. It wires
// together worker discovery through the on-chain registry, resilient LLM
// clients, voice services, and health probes under one configuration.
package sdk

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/health"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/llm"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/registry"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/voice"
)

// SDK is the public interface for discovering workers and constructing
// per-service clients.
type SDK interface {
	// Models lists the models known to the worker-management contract.
	Models(ctx context.Context) ([]string, error)

	// URLs lists the worker URLs hosting the given model; an empty model
	// returns every known URL.
	URLs(ctx context.Context, model string) ([]string, error)

	// NewLLMClient discovers a worker hosting the model and returns a client
	// bound to it. The client's resilience, validation, retry policy, and
	// timeouts follow the SDK configuration.
	NewLLMClient(ctx context.Context, model string, opts ...llm.Option) (llm.Client, error)

	// NewLLMClientForURL builds a client for an explicit worker URL, skipping
	// discovery.
	NewLLMClientForURL(url string, opts ...llm.Option) (llm.Client, error)

	// Voice returns a client for the platform's STT/TTS services.
	Voice(opts ...voice.Option) (*voice.Client, error)

	// Health returns a health checker for a worker endpoint.
	Health(endpoint string) *health.Checker

	// Registry exposes the raw registry client for advanced queries.
	Registry() *registry.Client
}

// Core is the concrete SDK implementation.
type Core struct {
	cfg *config.Config
	reg *registry.Client
	log *zap.Logger
}

// New initializes the SDK with a validated configuration and a registry
// client bound to the configured contract. A nil cfg uses environment
// defaults throughout.
func New(cfg *config.Config) (*Core, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg, err := registry.NewClient(
		registry.WithChainID(cfg.ChainID),
		registry.WithNodeURL(cfg.NodeURL),
		registry.WithContract(cfg.WorkerContract),
		registry.WithRetryConfig(cfg.Retry),
		registry.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, err
	}

	cfg.Logger.Debug("initialized SDK",
		zap.String("chain_id", cfg.ChainID),
		zap.String("node_url", cfg.NodeURL),
		zap.String("contract", cfg.WorkerContract))

	return &Core{cfg: cfg, reg: reg, log: cfg.Logger}, nil
}

// Models lists the models known to the worker-management contract.
func (c *Core) Models(ctx context.Context) ([]string, error) {
	return c.reg.GetModels(ctx)
}

// URLs lists the worker URLs hosting the given model.
func (c *Core) URLs(ctx context.Context, model string) ([]string, error) {
	return c.reg.GetURLs(ctx, model)
}

// NewLLMClient looks up the workers hosting model and binds a client to the
// first one.
func (c *Core) NewLLMClient(ctx context.Context, model string, opts ...llm.Option) (llm.Client, error) {
	urls, err := c.reg.GetURLs(ctx, model)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no workers host model %q", model)
	}
	return c.NewLLMClientForURL(urls[0], opts...)
}

// NewLLMClientForURL builds a client for an explicit worker URL.
func (c *Core) NewLLMClientForURL(url string, opts ...llm.Option) (llm.Client, error) {
	base := []llm.Option{
		llm.WithAPIKey(c.cfg.APIKey),
		llm.WithRetryConfig(c.cfg.Retry),
		llm.WithTimeouts(c.cfg.Timeouts),
		llm.WithResilience(!c.cfg.DisableResilience),
		llm.WithValidation(!c.cfg.DisableValidation),
		llm.WithLogger(c.log),
	}
	return llm.New(url, append(base, opts...)...)
}

// Voice returns a client for the STT/TTS services, sharing the SDK's API key
// and logger.
func (c *Core) Voice(opts ...voice.Option) (*voice.Client, error) {
	base := []voice.Option{voice.WithLogger(c.log)}
	if c.cfg.APIKey != "" {
		base = append(base, voice.WithAPIKey(c.cfg.APIKey))
	}
	return voice.New(append(base, opts...)...)
}

// Health returns a health checker for a worker endpoint.
func (c *Core) Health(endpoint string) *health.Checker {
	return health.NewChecker(endpoint, health.WithLogger(c.log))
}

// Registry exposes the raw registry client.
func (c *Core) Registry() *registry.Client {
	return c.reg
}

var _ SDK = (*Core)(nil)
