package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// fakeTransport scripts a sequence of failures before succeeding and counts
// invocations.
type fakeTransport struct {
	failures  int
	failWith  error
	generate  *GenerateResponse
	chat      *ChatResponse
	calls     int
	chatCalls int
}

func (f *fakeTransport) Generate(context.Context, *GenerateRequest) (*GenerateResponse, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.failWith
	}
	return f.generate, nil
}

func (f *fakeTransport) Chat(context.Context, *ChatRequest) (*ChatResponse, error) {
	f.chatCalls++
	if f.chatCalls <= f.failures {
		return nil, f.failWith
	}
	return f.chat, nil
}

func fastRetry(maxRetries int) config.RetryConfig {
	return config.RetryConfig{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxDelay:          5 * time.Millisecond,
	}
}

// TestNew_MissingAPIKey verifies construction fails with a ConfigError before
// any transport activity when no key is available.
func TestNew_MissingAPIKey(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")

	tr := &fakeTransport{}
	_, err := New("http://worker", WithTransport(tr))

	var cfgErr *sdkerr.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if tr.calls != 0 || tr.chatCalls != 0 {
		t.Fatal("transport was invoked during failed construction")
	}
}

// TestNew_APIKeyFromEnv verifies the key resolves from the environment when
// not passed explicitly.
func TestNew_APIKeyFromEnv(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "sk-env")

	c, err := New("http://worker", WithTransport(&fakeTransport{
		generate: &GenerateResponse{Response: "ok", Done: true},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Generate(context.Background(), &GenerateRequest{Model: "m"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestNew_InvalidRetryConfig verifies an out-of-domain policy is rejected at
// construction.
func TestNew_InvalidRetryConfig(t *testing.T) {
	cfg := fastRetry(3)
	cfg.BackoffMultiplier = 0.5

	_, err := New("http://worker", WithAPIKey("sk-test"), WithRetryConfig(cfg))
	var cfgErr *sdkerr.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

// TestResilientClient_RetriesTransientFailures verifies the default client
// retries retryable transport failures and returns the eventual success.
func TestResilientClient_RetriesTransientFailures(t *testing.T) {
	tr := &fakeTransport{
		failures: 2,
		failWith: sdkerr.NewConnectionError("generate", errors.New("refused")),
		generate: &GenerateResponse{Response: "recovered", Done: true},
	}
	c, err := New("http://worker",
		WithAPIKey("sk-test"),
		WithTransport(tr),
		WithRetryConfig(fastRetry(3)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Generate(context.Background(), &GenerateRequest{Model: "m", Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Response != "recovered" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if tr.calls != 3 {
		t.Fatalf("transport invoked %d times, want 3", tr.calls)
	}
}

// TestResilientClient_ExhaustsBudget verifies persistent failures surface as
// RetryExhaustedError after MaxRetries+1 transport invocations.
func TestResilientClient_ExhaustsBudget(t *testing.T) {
	tr := &fakeTransport{
		failures: 100,
		failWith: sdkerr.NewTimeoutError("chat", errors.New("deadline")),
	}
	c, err := New("http://worker",
		WithAPIKey("sk-test"),
		WithTransport(tr),
		WithRetryConfig(fastRetry(2)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Chat(context.Background(), &ChatRequest{Model: "m"})
	var exhausted *sdkerr.RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", exhausted.Attempts)
	}
	if tr.chatCalls != 3 {
		t.Fatalf("transport invoked %d times, want 3", tr.chatCalls)
	}
}

// TestResilientClient_ValidationAfterSuccess verifies a structurally broken
// success consumes a single attempt and fails validation without retrying.
func TestResilientClient_ValidationAfterSuccess(t *testing.T) {
	tr := &fakeTransport{
		generate: &GenerateResponse{Error: "model overloaded"},
	}
	c, err := New("http://worker",
		WithAPIKey("sk-test"),
		WithTransport(tr),
		WithRetryConfig(fastRetry(3)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Generate(context.Background(), &GenerateRequest{Model: "m"})
	var respErr *sdkerr.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("transport invoked %d times, want 1", tr.calls)
	}
}

// TestResilientClient_ValidationDisabled verifies WithValidation(false) lets
// an error-marked payload pass through.
func TestResilientClient_ValidationDisabled(t *testing.T) {
	tr := &fakeTransport{
		chat: &ChatResponse{Error: "model overloaded"},
	}
	c, err := New("http://worker",
		WithAPIKey("sk-test"),
		WithTransport(tr),
		WithValidation(false),
		WithRetryConfig(fastRetry(3)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Chat(context.Background(), &ChatRequest{Model: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error != "model overloaded" {
		t.Fatalf("payload altered: %+v", resp)
	}
}

// TestBasicClient_SingleAttempt verifies WithResilience(false) performs no
// retries and forwards transport errors unchanged.
func TestBasicClient_SingleAttempt(t *testing.T) {
	failWith := sdkerr.NewConnectionError("generate", errors.New("refused"))
	tr := &fakeTransport{failures: 100, failWith: failWith}

	c, err := New("http://worker",
		WithAPIKey("sk-test"),
		WithTransport(tr),
		WithResilience(false),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Generate(context.Background(), &GenerateRequest{Model: "m"})
	if !errors.Is(err, failWith) {
		t.Fatalf("expected the transport error unchanged, got %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("transport invoked %d times, want 1", tr.calls)
	}
}

// TestResilientClient_BlockingWaits verifies the thread-blocking wait mode
// produces the same retry behavior as the default cooperative mode.
func TestResilientClient_BlockingWaits(t *testing.T) {
	tr := &fakeTransport{
		failures: 1,
		failWith: sdkerr.NewTimeoutError("generate", errors.New("deadline")),
		generate: &GenerateResponse{Response: "ok", Done: true},
	}
	c, err := New("http://worker",
		WithAPIKey("sk-test"),
		WithTransport(tr),
		WithRetryConfig(fastRetry(2)),
		WithBlockingWaits(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Generate(context.Background(), &GenerateRequest{Model: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Response != "ok" || tr.calls != 2 {
		t.Fatalf("resp=%+v calls=%d, want ok after 2 calls", resp, tr.calls)
	}
}
