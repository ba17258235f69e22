package handlers

import (
	"time"

	"taskory/internal/analytics"
	"taskory/internal/config"
	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// fetchTaskRows mengambil semua task milik user, lengkap dengan nama
// kategori, untuk diolah oleh package analytics.
func fetchTaskRows(userID int) ([]analytics.TaskRow, error) {
	rows, err := config.DB.Query(`
		SELECT t.id, t.title, t.completed, t.priority, COALESCE(c.name, ''),
			t.due_date, t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []analytics.TaskRow{}
	for rows.Next() {
		var t analytics.TaskRow
		err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.Priority, &t.CategoryName,
			&t.DueDate, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func periodParam(c *fiber.Ctx) int {
	period := c.QueryInt("period", 30)
	if period < 1 || period > 365 {
		period = 30
	}
	return period
}

func GetDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	tasks, err := fetchTaskRows(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks for dashboard", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching dashboard analytics",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Dashboard analytics retrieved successfully",
		"success": true,
		"status":  200,
		"data":    analytics.Dashboard(tasks, time.Now()),
	})
}

func GetTaskAnalytics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	tasks, err := fetchTaskRows(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks for analytics", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task analytics",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task analytics retrieved successfully",
		"success": true,
		"status":  200,
		"data":    analytics.TaskAnalytics(tasks, periodParam(c), time.Now()),
	})
}

func GetCategoryAnalytics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	tasks, err := fetchTaskRows(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks for category analytics", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching category analytics",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Category analytics retrieved successfully",
		"success": true,
		"status":  200,
		"data":    analytics.CategoryAnalytics(tasks, time.Now()),
	})
}

func GetProductivityInsights(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	tasks, err := fetchTaskRows(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks for productivity insights", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching productivity insights",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Productivity insights retrieved successfully",
		"success": true,
		"status":  200,
		"data":    analytics.ProductivityInsights(tasks, periodParam(c), time.Now()),
	})
}

// GetCustomRangeAnalytics memvalidasi rentang tanggal sebelum menyentuh
// data: dua-duanya wajib, start harus sebelum end, dan maksimal 365 hari.
func GetCustomRangeAnalytics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "startDate and endDate are required",
			"success": false,
			"status":  400,
		})
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		start, err = time.Parse(time.RFC3339, startStr)
	}
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid startDate format",
			"success": false,
			"status":  400,
		})
	}

	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		end, err = time.Parse(time.RFC3339, endStr)
	}
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid endDate format",
			"success": false,
			"status":  400,
		})
	}

	if !start.Before(end) {
		return c.Status(400).JSON(fiber.Map{
			"message": "startDate must be before endDate",
			"success": false,
			"status":  400,
		})
	}
	if end.Sub(start) > 365*24*time.Hour {
		return c.Status(400).JSON(fiber.Map{
			"message": "Date range cannot exceed 365 days",
			"success": false,
			"status":  400,
		})
	}

	tasks, err := fetchTaskRows(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks for custom range", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching custom range analytics",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Custom range analytics retrieved successfully",
		"success": true,
		"status":  200,
		"data":    analytics.CustomRange(tasks, start, end, time.Now()),
	})
}
