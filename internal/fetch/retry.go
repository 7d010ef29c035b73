package fetch

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// MaxRetries is the number of download attempts.
const MaxRetries = 3

const maxBackoff = 30 * time.Second

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server's requested wait, zero when it sent none.
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("retryable error: %s", truncate(e.Message, 200))
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// retryableStatus reports the statuses a published sheet returns while
// throttled or briefly unavailable.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > maxBackoff {
		base = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// wait picks the delay before the next attempt: the server's Retry-After
// when it asks for longer than the backoff, capped at maxBackoff.
func wait(err error, backoff time.Duration) time.Duration {
	var retryErr *RetryableError
	if errors.As(err, &retryErr) && retryErr.RetryAfter > backoff {
		return min(retryErr.RetryAfter, maxBackoff)
	}
	return backoff
}

// parseRetryAfter reads a Retry-After header given in seconds. HTTP dates
// are ignored.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
