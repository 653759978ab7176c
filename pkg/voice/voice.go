// Package voice provides speech-to-text and text-to-speech access to the
// Secret AI platform. STT uses the worker's multipart upload endpoints; TTS
// speaks the platform's OpenAI-compatible audio API.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// Default service endpoints, matching the platform's standard ports.
const (
	DefaultSTTURL = "https://localhost:25436"
	DefaultTTSURL = "https://localhost:25435"

	// DefaultTTSModel is the speech model served by the platform.
	DefaultTTSModel = "kokoro"
)

// Transcription is the result of an STT upload.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// StreamTranscription is the result of the chunked STT endpoint.
type StreamTranscription struct {
	Text            string   `json:"text"`
	ChunksProcessed int      `json:"chunks_processed"`
	PartialResults  []string `json:"partial_results,omitempty"`
}

// Client combines STT and TTS access behind one API key. The voice services
// authenticate with a basic-style header rather than the workers' bearer one.
type Client struct {
	sttURL string
	ttsURL string
	auth   string
	model  string
	http   *http.Client
	tts    openai.Client
	log    *zap.Logger
}

// Option customizes voice client construction.
type Option func(*Client)

// WithSTTURL overrides the speech-to-text service URL.
func WithSTTURL(u string) Option {
	return func(c *Client) { c.sttURL = strings.TrimSuffix(u, "/") }
}

// WithTTSURL overrides the text-to-speech service URL.
func WithTTSURL(u string) Option {
	return func(c *Client) { c.ttsURL = strings.TrimSuffix(u, "/") }
}

// WithAPIKey sets the API key explicitly, overriding the environment.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.auth = "Basic " + key }
}

// WithTTSModel overrides the speech model requested from the TTS service.
func WithTTSModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient replaces the HTTP client used for STT uploads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// WithLogger sets the log sink.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a voice client. The API key resolves from the explicit option
// first, then from SECRET_AI_API_KEY; construction fails with a ConfigError
// when neither is set.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		sttURL: DefaultSTTURL,
		ttsURL: DefaultTTSURL,
		model:  DefaultTTSModel,
		http:   &http.Client{Timeout: config.DefaultRequestTimeout},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.auth == "" {
		key := os.Getenv(config.EnvAPIKey)
		if key == "" {
			return nil, sdkerr.NewConfigError("missing API key: set %s or pass WithAPIKey", config.EnvAPIKey)
		}
		c.auth = "Basic " + key
	}

	c.tts = openai.NewClient(
		option.WithBaseURL(c.ttsURL+"/v1"),
		option.WithHeader("Authorization", c.auth),
		option.WithHTTPClient(c.http),
	)

	return c, nil
}

// Transcribe uploads an audio file to the STT endpoint and returns the
// transcription.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*Transcription, error) {
	out := new(Transcription)
	if err := c.upload(ctx, "/stt", audioPath, out); err != nil {
		return nil, err
	}
	return out, nil
}

// TranscribeStream uploads an audio file to the chunked STT endpoint, which
// processes the audio in segments and reports partial results.
func (c *Client) TranscribeStream(ctx context.Context, audioPath string) (*StreamTranscription, error) {
	out := new(StreamTranscription)
	if err := c.upload(ctx, "/stt_stream", audioPath, out); err != nil {
		return nil, err
	}
	return out, nil
}

// upload posts one multipart request with the audio file under the "audio"
// field and decodes the JSON reply into out.
func (c *Client) upload(ctx context.Context, path, audioPath string, out any) error {
	f, err := os.Open(audioPath)
	if err != nil {
		return fmt.Errorf("opening audio file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.log.Debug("closing audio file", zap.Error(cerr))
		}
	}()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sttURL+path, &buf)
	if err != nil {
		return sdkerr.NewConnectionError("stt", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", c.auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return sdkerr.NewConnectionError("stt", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Debug("closing stt response", zap.Error(cerr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return sdkerr.NewNetworkError("stt", err)
	}
	if resp.StatusCode != http.StatusOK {
		return sdkerr.NewResponseError(
			fmt.Sprintf("stt failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return sdkerr.NewResponseError("decoding stt response: "+err.Error(), string(body))
	}
	return nil
}
