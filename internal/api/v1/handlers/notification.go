package handlers

import (
	"fmt"
	"math"
	"time"

	"taskory/internal/config"
	"taskory/internal/models"
	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Notification handlers

func CreateNotification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type NotificationRequest struct {
		Title    string `json:"title" validate:"required"`
		Message  string `json:"message" validate:"required"`
		TaskID   int    `json:"taskId" validate:"required"`
		NotifyAt string `json:"notifyAt" validate:"required"`
	}

	var req NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create notification", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	notifyAt, err := time.Parse(time.RFC3339, req.NotifyAt)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid notifyAt format",
			"success": false,
			"status":  400,
		})
	}

	// Waktu notifikasi harus di masa depan
	if !notifyAt.After(time.Now()) {
		return c.Status(400).JSON(fiber.Map{
			"message": "Notification time must be in the future",
			"success": false,
			"status":  400,
		})
	}

	// Task harus ada dan milik user
	var taskOwner int
	err = config.DB.QueryRow("SELECT user_id FROM tasks WHERE id = $1", req.TaskID).Scan(&taskOwner)
	if err != nil || taskOwner != userID {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	var notification models.Notification
	err = config.DB.QueryRow(`
		INSERT INTO notifications (user_id, task_id, title, message, notify_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, task_id, title, message, notify_at, sent, created_at`,
		userID, req.TaskID, req.Title, req.Message, notifyAt,
	).Scan(&notification.ID, &notification.UserID, &notification.TaskID, &notification.Title,
		&notification.Message, &notification.NotifyAt, &notification.Sent, &notification.CreatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error creating notification", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating notification",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Notification created", zap.Int("notification_id", notification.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Notification created successfully",
		"success": true,
		"status":  201,
		"data":    notification,
	})
}

// GenerateNotifications membuat reminder untuk semua task user yang belum
// selesai dan punya due date. Operasi ini idempotent: task yang sudah
// punya notifikasi pending dilewati, begitu juga task yang waktu
// remindernya (due date dikurangi 1 jam) sudah lewat.
func GenerateNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	rows, err := config.DB.Query(`
		SELECT id, title, priority, due_date
		FROM tasks
		WHERE user_id = $1 AND completed = FALSE AND due_date IS NOT NULL`,
		userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks for notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating notifications",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	type taskInfo struct {
		id       int
		title    string
		priority string
		dueDate  time.Time
	}
	var tasks []taskInfo
	for rows.Next() {
		var t taskInfo
		if err := rows.Scan(&t.id, &t.title, &t.priority, &t.dueDate); err != nil {
			logger.ErrorLogger.Error("Error scanning tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error generating notifications",
				"success": false,
				"status":  500,
			})
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating notifications",
			"success": false,
			"status":  500,
		})
	}

	created := []models.Notification{}
	now := time.Now()
	for _, t := range tasks {
		// Lewati task yang sudah punya notifikasi belum terkirim
		var existingID int
		err := config.DB.QueryRow(
			"SELECT id FROM notifications WHERE user_id = $1 AND task_id = $2 AND sent = FALSE",
			userID, t.id,
		).Scan(&existingID)
		if err == nil {
			continue
		}

		// Reminder dijadwalkan 1 jam sebelum due date; hanya dibuat
		// jika waktunya masih di masa depan
		notifyAt := t.dueDate.Add(-1 * time.Hour)
		if !notifyAt.After(now) {
			continue
		}

		var notification models.Notification
		err = config.DB.QueryRow(`
			INSERT INTO notifications (user_id, task_id, title, message, notify_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id, task_id, title, message, notify_at, sent, created_at`,
			userID, t.id,
			fmt.Sprintf("Task Reminder: %s", t.title),
			fmt.Sprintf("Your task %q is due in 1 hour. Priority: %s", t.title, t.priority),
			notifyAt,
		).Scan(&notification.ID, &notification.UserID, &notification.TaskID, &notification.Title,
			&notification.Message, &notification.NotifyAt, &notification.Sent, &notification.CreatedAt)
		if err != nil {
			logger.ErrorLogger.Error("Error creating notification", zap.Int("task_id", t.id), zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error generating notifications",
				"success": false,
				"status":  500,
			})
		}
		created = append(created, notification)
	}

	logger.AuditLogger.Info("Notifications generated",
		zap.Int("user_id", userID), zap.Int("count", len(created)))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%d notifications generated for incomplete tasks", len(created)),
		"success": true,
		"status":  200,
		"data":    created,
		"count":   len(created),
	})
}

func ListNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	where := "n.user_id = $1"
	args := []interface{}{userID}
	switch c.Query("status") {
	case "sent":
		where += " AND n.sent = TRUE"
	case "pending":
		where += " AND n.sent = FALSE"
	}

	var total int
	err := config.DB.QueryRow("SELECT COUNT(*) FROM notifications n WHERE "+where, args...).Scan(&total)
	if err != nil {
		logger.ErrorLogger.Error("Error counting notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching notifications",
			"success": false,
			"status":  500,
		})
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
		SELECT n.id, n.user_id, n.task_id, n.title, n.message, n.notify_at, n.sent, n.created_at,
			t.title, t.due_date, t.priority
		FROM notifications n
		LEFT JOIN tasks t ON t.id = n.task_id
		WHERE %s
		ORDER BY n.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching notifications",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Title, &n.Message, &n.NotifyAt, &n.Sent,
			&n.CreatedAt, &n.TaskTitle, &n.TaskDueDate, &n.TaskPriority)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning notifications", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning notifications",
				"success": false,
				"status":  500,
			})
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching notifications",
			"success": false,
			"status":  500,
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(fiber.Map{
		"message": "Notifications retrieved successfully",
		"success": true,
		"status":  200,
		"data":    notifications,
		"pagination": fiber.Map{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalItems":  total,
			"hasNextPage": page < totalPages,
			"hasPrevPage": page > 1,
		},
	})
}

// NotificationStats menghitung statistik notifikasi user. Batas "hari ini"
// memakai tengah malam waktu lokal server.
func NotificationStats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var total, sent, pending, todayTotal, todaySent, upcoming int
	err := config.DB.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE sent),
			COUNT(*) FILTER (WHERE NOT sent),
			COUNT(*) FILTER (WHERE created_at >= $2 AND created_at < $3),
			COUNT(*) FILTER (WHERE sent AND created_at >= $2 AND created_at < $3),
			COUNT(*) FILTER (WHERE notify_at > $4)
		FROM notifications WHERE user_id = $1`,
		userID, today, tomorrow, now,
	).Scan(&total, &sent, &pending, &todayTotal, &todaySent, &upcoming)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching notification stats", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching statistics",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Statistics retrieved successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"total":      total,
			"sent":       sent,
			"pending":    pending,
			"todayTotal": todayTotal,
			"todaySent":  todaySent,
			"upcoming":   upcoming,
		},
	})
}

func UpcomingNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		limit = 5
	}

	rows, err := config.DB.Query(`
		SELECT n.id, n.user_id, n.task_id, n.title, n.message, n.notify_at, n.sent, n.created_at,
			t.title, t.due_date, t.priority
		FROM notifications n
		LEFT JOIN tasks t ON t.id = n.task_id
		WHERE n.user_id = $1 AND n.notify_at > NOW()
		ORDER BY n.notify_at ASC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching upcoming notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching upcoming notifications",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Title, &n.Message, &n.NotifyAt, &n.Sent,
			&n.CreatedAt, &n.TaskTitle, &n.TaskDueDate, &n.TaskPriority)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning notifications", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning notifications",
				"success": false,
				"status":  500,
			})
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching upcoming notifications",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Upcoming notifications retrieved successfully",
		"success": true,
		"status":  200,
		"data":    notifications,
	})
}

func GetNotification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid notification ID",
			"success": false,
			"status":  400,
		})
	}

	var n models.Notification
	err = config.DB.QueryRow(`
		SELECT n.id, n.user_id, n.task_id, n.title, n.message, n.notify_at, n.sent, n.created_at,
			t.title, t.due_date, t.priority
		FROM notifications n
		LEFT JOIN tasks t ON t.id = n.task_id
		WHERE n.id = $1 AND n.user_id = $2`,
		notificationID, userID,
	).Scan(&n.ID, &n.UserID, &n.TaskID, &n.Title, &n.Message, &n.NotifyAt, &n.Sent,
		&n.CreatedAt, &n.TaskTitle, &n.TaskDueDate, &n.TaskPriority)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Notification not found",
			"success": false,
			"status":  404,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notification retrieved successfully",
		"success": true,
		"status":  200,
		"data":    n,
	})
}

func UpdateNotification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid notification ID",
			"success": false,
			"status":  400,
		})
	}

	var n models.Notification
	err = config.DB.QueryRow(`
		SELECT id, user_id, task_id, title, message, notify_at, sent, created_at
		FROM notifications WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	).Scan(&n.ID, &n.UserID, &n.TaskID, &n.Title, &n.Message, &n.NotifyAt, &n.Sent, &n.CreatedAt)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Notification not found",
			"success": false,
			"status":  404,
		})
	}

	type UpdateNotificationRequest struct {
		Title    *string `json:"title"`
		Message  *string `json:"message"`
		NotifyAt *string `json:"notifyAt"`
	}

	var req UpdateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Message != nil {
		n.Message = *req.Message
	}
	if req.NotifyAt != nil {
		notifyAt, err := time.Parse(time.RFC3339, *req.NotifyAt)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid notifyAt format",
				"success": false,
				"status":  400,
			})
		}
		if !notifyAt.After(time.Now()) {
			return c.Status(400).JSON(fiber.Map{
				"message": "Notification time must be in the future",
				"success": false,
				"status":  400,
			})
		}
		n.NotifyAt = notifyAt
	}

	_, err = config.DB.Exec(
		"UPDATE notifications SET title = $1, message = $2, notify_at = $3 WHERE id = $4",
		n.Title, n.Message, n.NotifyAt, notificationID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating notification", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating notification",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Notification updated", zap.Int("notification_id", notificationID))
	return c.JSON(fiber.Map{
		"message": "Notification updated successfully",
		"success": true,
		"status":  200,
		"data":    n,
	})
}

func MarkAsSent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid notification ID",
			"success": false,
			"status":  400,
		})
	}

	var n models.Notification
	err = config.DB.QueryRow(`
		UPDATE notifications SET sent = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, task_id, title, message, notify_at, sent, created_at`,
		notificationID, userID,
	).Scan(&n.ID, &n.UserID, &n.TaskID, &n.Title, &n.Message, &n.NotifyAt, &n.Sent, &n.CreatedAt)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Notification not found",
			"success": false,
			"status":  404,
		})
	}

	logger.AuditLogger.Info("Notification marked as sent", zap.Int("notification_id", notificationID))
	return c.JSON(fiber.Map{
		"message": "Notification marked as sent",
		"success": true,
		"status":  200,
		"data":    n,
	})
}

func DeleteNotification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid notification ID",
			"success": false,
			"status":  400,
		})
	}

	result, err := config.DB.Exec(
		"DELETE FROM notifications WHERE id = $1 AND user_id = $2",
		notificationID, userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting notification", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting notification",
			"success": false,
			"status":  500,
		})
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Notification not found",
			"success": false,
			"status":  404,
		})
	}

	logger.AuditLogger.Info("Notification deleted", zap.Int("notification_id", notificationID))
	return c.JSON(fiber.Map{
		"message": "Notification deleted successfully",
		"success": true,
		"status":  200,
	})
}

// BulkDeleteNotifications menghapus notifikasi berdasarkan list id. Id
// yang bukan milik user dilewati tanpa error; response hanya melaporkan
// jumlah yang terhapus.
func BulkDeleteNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type BulkDeleteRequest struct {
		NotificationIDs []int `json:"notificationIds" validate:"required,min=1"`
	}

	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Notification IDs array is required",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	result, err := config.DB.Exec(
		"DELETE FROM notifications WHERE id = ANY($1) AND user_id = $2",
		pq.Array(req.NotificationIDs), userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error bulk deleting notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting notifications",
			"success": false,
			"status":  500,
		})
	}

	deleted, _ := result.RowsAffected()
	logger.AuditLogger.Info("Notifications bulk deleted",
		zap.Int("user_id", userID), zap.Int64("count", deleted))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%d notification(s) deleted successfully", deleted),
		"success": true,
		"status":  200,
		"deleted": deleted,
	})
}
