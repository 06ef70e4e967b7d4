package vision

import (
	"fmt"
	"strconv"
	"time"
)

// RateLimitError indicates an extraction provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Both delta-seconds and HTTP-date forms are accepted. Returns 0 when the
// value is empty, malformed or already in the past.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return secs
	}
	at, err := time.Parse(time.RFC1123, val)
	if err != nil {
		return 0
	}
	secs := int(time.Until(at).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
