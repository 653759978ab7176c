package retry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// TestIsRetryable_Taxonomy verifies classification of the typed taxonomy
// errors: every NetworkError kind retries, ResponseError and ConfigError
// never do.
func TestIsRetryable_Taxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"generic network", sdkerr.NewNetworkError("generate", errors.New("reset by peer")), true},
		{"timeout", sdkerr.NewTimeoutError("generate", errors.New("deadline")), true},
		{"connection", sdkerr.NewConnectionError("chat", errors.New("refused")), true},
		{"response", sdkerr.NewResponseError("bad payload", nil), false},
		{"config", sdkerr.NewConfigError("missing API key"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestIsRetryable_WrappedTaxonomy verifies that wrapping a taxonomy error
// does not change its classification.
func TestIsRetryable_WrappedTaxonomy(t *testing.T) {
	wrappedNet := fmt.Errorf("calling worker: %w", sdkerr.NewTimeoutError("generate", errors.New("deadline")))
	if !IsRetryable(wrappedNet) {
		t.Fatal("wrapped NetworkError should be retryable")
	}

	wrappedResp := fmt.Errorf("calling worker: %w", sdkerr.NewResponseError("bad payload", nil))
	if IsRetryable(wrappedResp) {
		t.Fatal("wrapped ResponseError should not be retryable")
	}
}

// TestIsRetryable_KeywordFallback verifies the message heuristic applied to
// errors outside the taxonomy.
func TestIsRetryable_KeywordFallback(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"502 Bad Gateway", true},
		{"service unavailable", true},
		{"Gateway Timeout from upstream", true},
		{"request Timed Out", true},
		{"network is unreachable", true},
		{"Connection reset by peer", true},
		{"temporarily unavailable, try later", true},
		{"Invalid input", false},
		{"permission denied", false},
		{"no such model", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := IsRetryable(errors.New(tt.msg)); got != tt.want {
				t.Fatalf("IsRetryable(%q) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}
