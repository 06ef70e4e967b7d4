package vision

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"docrecon/internal/port"
)

// circuitState tracks rate-limit backoff for a single extractor.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackExtractor tries extractors in order, skipping those whose circuit
// is open after a rate limit. It implements port.VisionExtractor.
type FallbackExtractor struct {
	extractors []port.VisionExtractor
	circuits   []*circuitState
	names      []string
	now        func() time.Time
}

// NewFallbackExtractor creates a FallbackExtractor from an ordered list of
// extractors and their names.
func NewFallbackExtractor(extractors []port.VisionExtractor, names []string) *FallbackExtractor {
	circuits := make([]*circuitState, len(extractors))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackExtractor{
		extractors: extractors,
		circuits:   circuits,
		names:      names,
		now:        time.Now,
	}
}

func (f *FallbackExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	now := f.now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, e := range f.extractors {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("vision.FallbackExtractor: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := e.Extract(ctx, input)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		log.Printf("vision.FallbackExtractor: %s failed on page %d: %v", f.names[i], input.PageNumber, err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := earliestReset.Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all extractors rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all extractors failed: %w", lastErr)
}
