package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// Worker API paths (Ollama-compatible).
const (
	generatePath = "/api/generate"
	chatPath     = "/api/chat"
)

// Transport performs the actual network call against a worker. It is a black
// box to the resilience layer; implementations must surface failures as
// sdkerr taxonomy errors so classification can run on typed values.
type Transport interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// HTTPTransport talks to a worker over its JSON/HTTP API. The bearer auth
// header is derived from the API key once at construction and never changes.
type HTTPTransport struct {
	base   string
	auth   string
	client *http.Client
	log    *zap.Logger
}

// NewHTTPTransport builds a transport for the given worker host. The request
// timeout bounds one full attempt; the connect timeout bounds dialing and the
// TLS handshake.
func NewHTTPTransport(host, apiKey string, timeouts config.TimeoutConfig, log *zap.Logger) *HTTPTransport {
	if log == nil {
		log = zap.NewNop()
	}
	dialer := &net.Dialer{Timeout: timeouts.Connect}
	return &HTTPTransport{
		base: strings.TrimSuffix(host, "/"),
		auth: "Bearer " + apiKey,
		client: &http.Client{
			Timeout: timeouts.Request,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: timeouts.Connect,
			},
		},
		log: log,
	}
}

// Generate performs a single completion attempt.
func (t *HTTPTransport) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	out := new(GenerateResponse)
	if err := t.post(ctx, "generate", generatePath, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chat performs a single chat attempt.
func (t *HTTPTransport) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	out := new(ChatResponse)
	if err := t.post(ctx, "chat", chatPath, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// post sends one JSON request and decodes the response, mapping every failure
// mode into the sdkerr taxonomy: dial/timeout errors become NetworkError of
// the matching kind, 5xx statuses become generic NetworkErrors (retryable),
// 4xx statuses and undecodable bodies become ResponseErrors (not retryable).
func (t *HTTPTransport) post(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return sdkerr.NewResponseError("encoding request: "+err.Error(), nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+path, bytes.NewReader(body))
	if err != nil {
		return sdkerr.NewConnectionError(op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", t.auth)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return mapTransportError(op, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			t.log.Debug("closing response body", zap.Error(cerr))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return sdkerr.NewNetworkError(op, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return sdkerr.NewNetworkError(op,
			fmt.Errorf("worker returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return sdkerr.NewResponseError(
			fmt.Sprintf("worker rejected %s with status %d: %s", op, resp.StatusCode, workerErrorText(raw)), nil)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return sdkerr.NewResponseError("decoding "+op+" response: "+err.Error(), string(raw))
	}
	return nil
}

// mapTransportError converts a raw *http.Client error into the taxonomy,
// preserving the original cause. Timeouts (including a context deadline hit
// mid-attempt) map to KindTimeout; everything else at this layer failed to
// reach the worker and maps to KindConnection.
func mapTransportError(op string, err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return sdkerr.NewTimeoutError(op, err)
	}
	return sdkerr.NewConnectionError(op, err)
}

func workerErrorText(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(raw))
}
