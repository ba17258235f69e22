package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	current := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3, time.Minute)
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow(1))
	assert.True(t, limiter.Allow(1))
	assert.True(t, limiter.Allow(1))
	assert.False(t, limiter.Allow(1))

	// User lain punya kuota sendiri
	assert.True(t, limiter.Allow(2))
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	current := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow(1))
	assert.True(t, limiter.Allow(1))
	assert.False(t, limiter.Allow(1))

	// Setelah window lewat, request pertama hangus dan kuota kembali
	current = current.Add(61 * time.Second)
	assert.True(t, limiter.Allow(1))
}

func TestRateLimiterRejectionDoesNotConsume(t *testing.T) {
	current := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute)
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow(1))
	assert.False(t, limiter.Allow(1))
	assert.False(t, limiter.Allow(1))

	current = current.Add(2 * time.Minute)
	assert.True(t, limiter.Allow(1))
}
