package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/retry"
)

// resilientClient composes the retry executor and the response validator
// around the transport. All per-call state (attempt counter, delays) lives
// inside retry.Do; the struct itself holds only immutable configuration, so
// concurrent calls need no locking and own independent retry budgets.
type resilientClient struct {
	transport Transport
	retryCfg  config.RetryConfig
	validator *Validator
	sleeper   retry.Sleeper
	log       *zap.Logger
}

func (c *resilientClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	resp, err := retry.Do(ctx, c.retryCfg,
		func(ctx context.Context) (*GenerateResponse, error) {
			return c.transport.Generate(ctx, req)
		},
		retry.WithName("generate"),
		retry.WithLogger(c.log),
		retry.WithSleeper(c.sleeper),
	)
	if err != nil {
		return nil, err
	}
	if err := c.validator.Generate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *resilientClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	resp, err := retry.Do(ctx, c.retryCfg,
		func(ctx context.Context) (*ChatResponse, error) {
			return c.transport.Chat(ctx, req)
		},
		retry.WithName("chat"),
		retry.WithLogger(c.log),
		retry.WithSleeper(c.sleeper),
	)
	if err != nil {
		return nil, err
	}
	if err := c.validator.Chat(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
