package ratelimiter

import (
	"testing"
	"time"

	"github.com/SeakMengs/AutoSign/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestFixedWindowRateLimiter(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(config.RateLimiterConfig{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true}, nil)
	rl.now = func() time.Time { return now }

	allowed, _ := rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed)

	allowed, retryAfter := rl.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)

	// other keys have their own window
	allowed, _ = rl.Allow("5.6.7.8")
	assert.True(t, allowed)

	now = now.Add(time.Minute)
	allowed, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed)
}

func TestDisabledRateLimiterAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: false}, nil)

	for i := 0; i < 5; i++ {
		allowed, _ := rl.Allow("key")
		assert.True(t, allowed)
	}

	var nilLimiter *FixedWindowRateLimiter
	allowed, _ := nilLimiter.Allow("key")
	assert.True(t, allowed)
}
