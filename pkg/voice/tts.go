package voice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	openai "github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// DefaultVoice is used when the caller does not pick one.
const DefaultVoice = "af_bella"

// Synthesize renders text to speech and returns the raw MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}

	resp, err := c.tts.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(c.model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Debug("closing tts response", zap.Error(cerr))
		}
	}()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	return audio, nil
}

// SynthesizeToFile renders text to speech and writes the audio to path.
func (c *Client) SynthesizeToFile(ctx context.Context, text, voice, path string) error {
	audio, err := c.Synthesize(ctx, text, voice)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("writing audio file: %w", err)
	}
	c.log.Info("wrote synthesized audio",
		zap.String("path", path), zap.Int("bytes", len(audio)))
	return nil
}

// Models lists the speech models served by the TTS service.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	page, err := c.tts.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tts models: %w", err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Healthy reports whether the TTS service answers its health route.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := newHealthRequest(ctx, c.ttsURL)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

func newHealthRequest(ctx context.Context, base string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
}
