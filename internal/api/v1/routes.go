package v1

import (
	"time"

	"taskory/internal/api/v1/handlers"
	"taskory/internal/cache"
	"taskory/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, store cache.Store) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/register", handlers.Register)
	api.Post("/auth/login", handlers.Login)

	// User
	userRoutes := api.Group("/users", middleware.UseToken)
	userRoutes.Get("/me", handlers.GetMe)
	userRoutes.Put("/me", handlers.UpdateMe)
	userRoutes.Put("/me/password", handlers.UpdatePassword)
	userRoutes.Delete("/me", handlers.DeleteMe)

	// Category
	categoryRoutes := api.Group("/categories", middleware.UseToken)
	categoryRoutes.Post("/", handlers.CreateCategory)
	categoryRoutes.Get("/", handlers.ListCategories)
	categoryRoutes.Put("/:id", handlers.UpdateCategory)
	categoryRoutes.Delete("/:id", handlers.DeleteCategory)

	// Task
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Patch("/:id/complete", handlers.CompleteTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)

	// Notification
	createLimiter := middleware.NewRateLimiter(30, time.Minute)
	notificationRoutes := api.Group("/notifications", middleware.UseToken)
	notificationRoutes.Post("/", middleware.RateLimit(createLimiter), handlers.CreateNotification)
	notificationRoutes.Post("/generate", handlers.GenerateNotifications)
	notificationRoutes.Get("/", handlers.ListNotifications)
	notificationRoutes.Get("/stats", handlers.NotificationStats)
	notificationRoutes.Get("/upcoming", handlers.UpcomingNotifications)
	notificationRoutes.Delete("/bulk", handlers.BulkDeleteNotifications)
	notificationRoutes.Get("/:id", handlers.GetNotification)
	notificationRoutes.Put("/:id", handlers.UpdateNotification)
	notificationRoutes.Patch("/:id/sent", handlers.MarkAsSent)
	notificationRoutes.Delete("/:id", handlers.DeleteNotification)

	// Analytics: rate limit per user, response di-cache 5 menit
	analyticsLimiter := middleware.NewRateLimiter(100, 15*time.Minute)
	analyticsRoutes := api.Group("/analytics", middleware.UseToken,
		middleware.RateLimit(analyticsLimiter),
		middleware.CacheAnalytics(store, 5*time.Minute))
	analyticsRoutes.Get("/dashboard", handlers.GetDashboard)
	analyticsRoutes.Get("/tasks", handlers.GetTaskAnalytics)
	analyticsRoutes.Get("/categories", handlers.GetCategoryAnalytics)
	analyticsRoutes.Get("/productivity", handlers.GetProductivityInsights)
	analyticsRoutes.Get("/custom-range", handlers.GetCustomRangeAnalytics)

	// File
	app.Get("/uploads/:filename", handlers.GetFile)
}
