package middleware

import (
	"sync"
	"time"

	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RateLimiter membatasi jumlah request per user dalam sliding window.
// State disimpan di memori proses dan reset saat proses restart.
type RateLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	requests map[int][]time.Time
	now      func() time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:      max,
		window:   window,
		requests: make(map[int][]time.Time),
		now:      time.Now,
	}
}

// Allow mencatat satu request untuk user dan mengembalikan false jika
// jumlah request dalam window sudah mencapai batas.
func (l *RateLimiter) Allow(userID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.requests[userID][:0]
	for _, ts := range l.requests[userID] {
		if now.Sub(ts) < l.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= l.max {
		l.requests[userID] = valid
		return false
	}

	l.requests[userID] = append(valid, now)
	return true
}

// RateLimit mengembalikan middleware yang menolak request dengan 429
// ketika batas per-user terlampaui. Harus dipasang setelah UseToken.
func RateLimit(limiter *RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)
		if !limiter.Allow(userID) {
			logger.SecurityLogger.Warn("Rate limit exceeded",
				zap.Int("user_id", userID),
				zap.String("url", c.OriginalURL()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests. Please try again later.",
				"success": false,
				"status":  429,
			})
		}
		return c.Next()
	}
}
