package llm

import (
	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// Validator checks a worker payload's shape before it is handed back to the
// caller. Strict checks (absent response, explicit server error marker) fail
// with a ResponseError; structural checks on optional fields only log.
// A disabled Validator is a no-op.
type Validator struct {
	enabled bool
	log     *zap.Logger
}

// NewValidator builds a validator. Pass enabled=false to turn every check
// into a no-op.
func NewValidator(enabled bool, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{enabled: enabled, log: log}
}

// Generate validates a completion payload.
func (v *Validator) Generate(resp *GenerateResponse) error {
	if !v.enabled {
		return nil
	}
	if resp == nil {
		return sdkerr.NewResponseError("received null response", nil)
	}
	if resp.Error != "" {
		return sdkerr.NewResponseError("server returned error: "+resp.Error, resp)
	}
	if resp.Response == "" {
		v.log.Warn("generate response missing 'response' field")
	}
	return nil
}

// Chat validates a chat payload.
func (v *Validator) Chat(resp *ChatResponse) error {
	if !v.enabled {
		return nil
	}
	if resp == nil {
		return sdkerr.NewResponseError("received null response", nil)
	}
	if resp.Error != "" {
		return sdkerr.NewResponseError("server returned error: "+resp.Error, resp)
	}
	if resp.Message.Content == "" {
		v.log.Warn("chat response message missing 'content' field")
	}
	return nil
}
