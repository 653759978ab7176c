// Package registry queries the Secret AI worker-management smart contract on
// Secret Network. The contract tracks the deployed models and the worker URLs
// hosting them; queries go through the LCD REST API of a Secret node.
package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/retry"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// Client reads the worker-management contract. All fields are fixed at
// construction; the client is safe for concurrent use.
type Client struct {
	chainID  string
	nodeURL  string
	contract string
	retryCfg config.RetryConfig
	http     *http.Client
	log      *zap.Logger
}

// Option customizes registry client construction.
type Option func(*Client)

// WithChainID overrides the chain ID (informational; the LCD node pins the chain).
func WithChainID(id string) Option {
	return func(c *Client) { c.chainID = id }
}

// WithNodeURL overrides the LCD endpoint.
func WithNodeURL(u string) Option {
	return func(c *Client) { c.nodeURL = u }
}

// WithContract overrides the worker-management contract address.
func WithContract(addr string) Option {
	return func(c *Client) { c.contract = addr }
}

// WithRetryConfig overrides the retry policy applied to contract queries.
func WithRetryConfig(cfg config.RetryConfig) Option {
	return func(c *Client) { c.retryCfg = cfg }
}

// WithLogger sets the log sink.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient builds a registry client. Unset values resolve from the
// environment and then from the built-in pulsar-3 defaults; an empty
// resolution (possible when an environment variable is set to the empty
// string deliberately) is a ConfigError.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		retryCfg: config.DefaultRetryConfig(),
		http:     &http.Client{Timeout: config.DefaultRequestTimeout},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := &config.Config{ChainID: c.chainID, NodeURL: c.nodeURL, WorkerContract: c.contract}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.chainID, c.nodeURL, c.contract = cfg.ChainID, cfg.NodeURL, cfg.WorkerContract

	if c.nodeURL == "" {
		return nil, sdkerr.NewConfigError("missing node URL: set %s", config.EnvNodeURL)
	}
	if c.contract == "" {
		return nil, sdkerr.NewConfigError("missing worker contract address: set %s", config.EnvWorkerContract)
	}
	if err := c.retryCfg.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// GetModels returns the models known to the worker-management contract.
func (c *Client) GetModels(ctx context.Context) ([]string, error) {
	var out struct {
		Models []string `json:"models"`
	}
	query := map[string]any{"get_models": map[string]any{}}
	if err := c.smartQuery(ctx, "get_models", query, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// GetURLs returns the worker URLs hosting the given model, or every known
// URL when model is empty.
func (c *Client) GetURLs(ctx context.Context, model string) ([]string, error) {
	inner := map[string]any{}
	if model != "" {
		inner["model"] = model
	}
	query := map[string]any{"get_u_r_ls": inner}

	var out struct {
		URLs []string `json:"urls"`
	}
	if err := c.smartQuery(ctx, "get_urls", query, &out); err != nil {
		return nil, err
	}
	return out.URLs, nil
}

// smartQuery runs one contract query under the retry executor. The query JSON
// is base64-encoded into the LCD compute query route; the decoded "data"
// object is unmarshaled into out.
func (c *Client) smartQuery(ctx context.Context, name string, query, out any) error {
	raw, err := json.Marshal(query)
	if err != nil {
		return sdkerr.NewResponseError("encoding contract query: "+err.Error(), nil)
	}

	u := fmt.Sprintf("%s/compute/v1beta1/query/%s?query=%s",
		strings.TrimSuffix(c.nodeURL, "/"),
		url.PathEscape(c.contract),
		url.QueryEscape(base64.StdEncoding.EncodeToString(raw)))

	body, err := retry.Do(ctx, c.retryCfg,
		func(ctx context.Context) ([]byte, error) {
			return c.fetch(ctx, name, u)
		},
		retry.WithName(name),
		retry.WithLogger(c.log),
	)
	if err != nil {
		return err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return sdkerr.NewResponseError("decoding contract response: "+err.Error(), string(body))
	}
	payload := envelope.Data
	if len(payload) == 0 {
		// Some gateways return the contract payload without the LCD envelope.
		payload = body
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return sdkerr.NewResponseError("decoding contract payload: "+err.Error(), string(payload))
	}
	return nil
}

// fetch performs a single LCD GET attempt, mapping failures into the taxonomy.
func (c *Client) fetch(ctx context.Context, op, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, sdkerr.NewConnectionError(op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, sdkerr.NewTimeoutError(op, err)
		}
		return nil, sdkerr.NewConnectionError(op, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Debug("closing LCD response body", zap.Error(cerr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sdkerr.NewNetworkError(op, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, sdkerr.NewNetworkError(op,
			fmt.Errorf("node returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, sdkerr.NewResponseError(
			fmt.Sprintf("node rejected %s with status %d", op, resp.StatusCode), string(body))
	}
	return body, nil
}
