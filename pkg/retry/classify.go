package retry

import (
	"errors"
	"strings"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// retryableKeywords is the fixed keyword set matched against unclassified
// error messages. Deliberately permissive: it covers transport failures and
// gateway statuses that arrive as flat strings from proxies the caller never
// typed.
var retryableKeywords = []string{
	"timeout", "timed out", "connection", "network",
	"temporarily unavailable", "service unavailable",
	"502", "503", "504", "gateway timeout",
}

// IsRetryable reports whether retrying can plausibly fix the given failure.
//
// Decision order: taxonomy first — ResponseError and ConfigError are never
// retryable (bad data or bad setup), NetworkError of any kind always is.
// Errors outside the taxonomy fall back to a case-insensitive substring match
// of the message against retryableKeywords. The checks use errors.As, so
// wrapped taxonomy errors classify the same as bare ones.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var respErr *sdkerr.ResponseError
	var cfgErr *sdkerr.ConfigError
	if errors.As(err, &respErr) || errors.As(err, &cfgErr) {
		return false
	}

	var netErr *sdkerr.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range retryableKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
