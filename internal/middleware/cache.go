package middleware

import (
	"fmt"
	"time"

	"taskory/internal/cache"
	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CacheAnalytics menyimpan response analytics per (user, route) dengan TTL.
// Cache bersifat best-effort: tidak di-invalidate saat ada write, jadi data
// yang sedikit basi bisa saja terkirim selama TTL belum habis.
func CacheAnalytics(store cache.Store, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)
		cacheKey := fmt.Sprintf("analytics:%d:%s", userID, c.OriginalURL())

		if cached, ok := store.Get(c.Context(), cacheKey); ok {
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Hanya response sukses yang disimpan
		if c.Response().StatusCode() == fiber.StatusOK {
			store.Set(c.Context(), cacheKey, string(c.Response().Body()), ttl)
			logger.RequestLogger.Info("Analytics response cached",
				zap.String("key", cacheKey),
			)
		}
		return nil
	}
}
