// Package ratelimit provides per-tool token bucket rate limiting for MCP tools.
package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a tool call exceeds its limit.
var ErrRateLimited = errors.New("rate limit exceeded")

// Limit configures one tool's bucket.
type Limit struct {
	PerMinute float64 // sustained calls per minute
	Burst     int     // max burst size (also the initial token count)
}

// DefaultLimits returns the per-tool limits used by the MCP server. Batches
// are limited hard because a single call can run a million walks.
func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		"clockwalk_trial": {PerMinute: 60, Burst: 10},
		"clockwalk_batch": {PerMinute: 6, Burst: 2},
	}
}

// ToolLimiters maps tool names to their token buckets. It is safe for
// concurrent use.
type ToolLimiters struct {
	limiters map[string]*rate.Limiter
	nowFunc  func() time.Time // injectable clock for testing
}

// NewToolLimiters creates a limiter per entry of limits. Tools without an
// entry are never limited; a nil or empty map disables limiting.
func NewToolLimiters(limits map[string]Limit) *ToolLimiters {
	tl := &ToolLimiters{
		limiters: make(map[string]*rate.Limiter, len(limits)),
		nowFunc:  time.Now,
	}
	for tool, l := range limits {
		tl.limiters[tool] = rate.NewLimiter(rate.Limit(l.PerMinute/60), l.Burst)
	}
	return tl
}

// Check consumes one token for toolName. It returns an error wrapping
// ErrRateLimited when the bucket is empty. Safe to call on nil receiver.
func (tl *ToolLimiters) Check(toolName string) error {
	if tl == nil {
		return nil
	}
	limiter, ok := tl.limiters[toolName]
	if !ok {
		return nil // No limiter configured = no limit
	}

	now := tl.nowFunc()
	if !limiter.AllowN(now, 1) {
		return fmt.Errorf("%s: %w, please try again shortly", toolName, ErrRateLimited)
	}
	return nil
}
