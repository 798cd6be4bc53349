package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/config"
)

func newLimiter(max int, window time.Duration) (*FixedWindow, *clock.FakeClock) {
	fake := clock.NewFake(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
	limiter := New(config.Config{RateLimit: config.RateLimitConfig{
		Enabled: true,
		Window:  window,
		Max:     max,
	}}, fake, nil)
	return limiter, fake
}

func TestAllowWithinWindow(t *testing.T) {
	limiter, _ := newLimiter(2, time.Minute)

	assert.True(t, limiter.Allow("recovery", "1"))
	assert.True(t, limiter.Allow("recovery", "1"))
	assert.False(t, limiter.Allow("recovery", "1"))

	// Other keys have their own window.
	assert.True(t, limiter.Allow("recovery", "2"))
}

func TestWindowResets(t *testing.T) {
	limiter, fake := newLimiter(1, time.Minute)

	assert.True(t, limiter.Allow("recovery", "1"))
	assert.False(t, limiter.Allow("recovery", "1"))

	fake.Advance(time.Minute)
	assert.True(t, limiter.Allow("recovery", "1"))
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
	limiter := New(config.Config{}, fake, nil)

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("recovery", "1"))
	}
}
