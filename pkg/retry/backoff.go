package retry

import (
	"math"
	"time"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
)

// DelayFor returns the backoff delay before the retry that follows the given
// attempt index (0-based): min(initial * multiplier^attempt, max). The
// schedule is pure and deterministic, with no jitter, and is non-decreasing
// in attempt until the cap is reached.
func DelayFor(attempt int, cfg config.RetryConfig) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	d := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffMultiplier, float64(attempt))
	if math.IsInf(d, 1) || d < 0 || d > float64(cfg.MaxDelay) {
		return cfg.MaxDelay
	}
	return time.Duration(d)
}
