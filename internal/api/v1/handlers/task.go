package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"taskory/internal/config"
	"taskory/internal/models"
	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Task handlers

// validPriority memeriksa prioritas task: high, medium, atau low
func validPriority(priority string) bool {
	switch priority {
	case "high", "medium", "low":
		return true
	default:
		return false
	}
}

// validRecurrence memeriksa pola pengulangan: Daily, Weekly, atau Monthly
func validRecurrence(recurrence string) bool {
	switch recurrence {
	case "Daily", "Weekly", "Monthly":
		return true
	default:
		return false
	}
}

// parseDueDate menerima format RFC3339 maupun tanggal saja (YYYY-MM-DD)
func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// parseTags mendecode tags yang dikirim sebagai string JSON dari form
// menjadi list string. String kosong menghasilkan list kosong.
func parseTags(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(encoded), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// categoryOwnedByUser memastikan kategori ada dan milik user
func categoryOwnedByUser(categoryID, userID int) (bool, error) {
	var id int
	err := config.DB.QueryRow(
		"SELECT id FROM categories WHERE id = $1 AND user_id = $2",
		categoryID, userID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	// struct TaskRequest menerima inputan dari user; tags dikirim
	// sebagai string JSON karena boundary form-encoding
	type TaskRequest struct {
		Title       string `json:"title" form:"title" validate:"required"`
		Description string `json:"description" form:"description"`
		Category    int    `json:"category" form:"category" validate:"required"`
		DueDate     string `json:"dueDate" form:"dueDate" validate:"required"`
		Priority    string `json:"priority" form:"priority" validate:"required,oneof=high medium low"`
		Tags        string `json:"tags" form:"tags"`
		Recurrence  string `json:"recurrence" form:"recurrence"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Title, category, due date, and priority are required",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid due date format",
			"success": false,
			"status":  400,
		})
	}

	if req.Recurrence != "" && !validRecurrence(req.Recurrence) {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid recurrence",
			"success": false,
			"status":  400,
		})
	}

	tags, err := parseTags(req.Tags)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid tags format",
			"success": false,
			"status":  400,
		})
	}

	// Judul task harus unik per user pada saat pembuatan
	var existingID int
	err = config.DB.QueryRow(
		"SELECT id FROM tasks WHERE user_id = $1 AND title = $2",
		userID, req.Title,
	).Scan(&existingID)
	if err == nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Task already exists",
			"success": false,
			"status":  409,
		})
	}
	if err != sql.ErrNoRows {
		logger.ErrorLogger.Error("Error checking task title", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	// Kategori harus ada dan milik user
	owned, err := categoryOwnedByUser(req.Category, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error checking category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}
	if !owned {
		return c.Status(404).JSON(fiber.Map{
			"message": "Category not found",
			"success": false,
			"status":  404,
		})
	}

	// Lampiran opsional di field "document" (multipart)
	var document *string
	if file, err := c.FormFile("document"); err == nil {
		fileURL, err := saveUpload(c, file)
		if err != nil {
			logger.ErrorLogger.Error("Error uploading attachment", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": err.Error(),
				"success": false,
				"status":  400,
			})
		}
		document = &fileURL
	}

	var recurrence *string
	if req.Recurrence != "" {
		recurrence = &req.Recurrence
	}

	var task models.Task
	err = config.DB.QueryRow(`
		INSERT INTO tasks (user_id, category_id, title, description, due_date, priority, tags, recurrence, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, category_id, title, description, completed, due_date, priority, tags, recurrence, document, created_at, updated_at`,
		userID, req.Category, req.Title, req.Description, dueDate, req.Priority, pq.Array(tags), recurrence, document,
	).Scan(&task.ID, &task.UserID, &task.CategoryID, &task.Title, &task.Description, &task.Completed,
		&task.DueDate, &task.Priority, &task.Tags, &task.Recurrence, &task.Document, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", task.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data":    task,
	})
}

func UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Ambil task yang ada; field yang tidak dikirim tetap memakai
	// nilai lama
	var task models.Task
	err = config.DB.QueryRow(`
		SELECT id, user_id, category_id, title, description, completed, due_date, priority, tags, recurrence, document, created_at, updated_at
		FROM tasks WHERE id = $1`,
		taskID,
	).Scan(&task.ID, &task.UserID, &task.CategoryID, &task.Title, &task.Description, &task.Completed,
		&task.DueDate, &task.Priority, &task.Tags, &task.Recurrence, &task.Document, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Task not found", zap.Int("task_id", taskID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	// Kepemilikan diperiksa sebelum update, sama seperti complete dan
	// delete; task milik user lain dilaporkan sebagai not found
	if task.UserID != userID {
		logger.SecurityLogger.Warn("Update attempt on foreign task",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title" form:"title"`
		Description *string `json:"description" form:"description"`
		Category    *int    `json:"category" form:"category"`
		DueDate     *string `json:"dueDate" form:"dueDate"`
		Priority    *string `json:"priority" form:"priority"`
		Tags        *string `json:"tags" form:"tags"`
		Recurrence  *string `json:"recurrence" form:"recurrence"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		// Kategori baru harus ada dan milik user
		owned, err := categoryOwnedByUser(*req.Category, userID)
		if err != nil {
			logger.ErrorLogger.Error("Error checking category", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error updating task",
				"success": false,
				"status":  500,
			})
		}
		if !owned {
			return c.Status(404).JSON(fiber.Map{
				"message": "Category not found",
				"success": false,
				"status":  404,
			})
		}
		task.CategoryID = req.Category
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid due date format",
				"success": false,
				"status":  400,
			})
		}
		task.DueDate = &dueDate
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid priority",
				"success": false,
				"status":  400,
			})
		}
		task.Priority = *req.Priority
	}
	if req.Tags != nil {
		// Tags di-parse ulang hanya jika dikirim; selain itu tags
		// lama dipertahankan
		tags, err := parseTags(*req.Tags)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid tags format",
				"success": false,
				"status":  400,
			})
		}
		task.Tags = tags
	}
	if req.Recurrence != nil {
		if *req.Recurrence == "" {
			task.Recurrence = nil
		} else {
			if !validRecurrence(*req.Recurrence) {
				return c.Status(400).JSON(fiber.Map{
					"message": "Invalid recurrence",
					"success": false,
					"status":  400,
				})
			}
			task.Recurrence = req.Recurrence
		}
	}

	// Lampiran baru menggantikan yang lama; file lama dihapus best-effort
	if file, err := c.FormFile("document"); err == nil {
		fileURL, err := saveUpload(c, file)
		if err != nil {
			logger.ErrorLogger.Error("Error uploading attachment", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": err.Error(),
				"success": false,
				"status":  400,
			})
		}
		if task.Document != nil {
			removeUpload(*task.Document)
		}
		task.Document = &fileURL
	}

	err = config.DB.QueryRow(`
		UPDATE tasks
		SET category_id = $1, title = $2, description = $3, due_date = $4, priority = $5,
			tags = $6, recurrence = $7, document = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`,
		task.CategoryID, task.Title, task.Description, task.DueDate, task.Priority,
		pq.Array([]string(task.Tags)), task.Recurrence, task.Document, taskID,
	).Scan(&task.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// sortColumns memetakan field sort dari query param ke kolom database
var sortColumns = map[string]string{
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"dueDate":   "t.due_date",
	"title":     "t.title",
	"priority":  "t.priority",
}

func ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	// Semua filter digabung dengan semantik AND
	conditions := []string{"t.user_id = $1"}
	args := []interface{}{userID}

	if search := c.Query("search"); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("t.title ILIKE $%d", len(args)))
	}
	if categoryID := c.QueryInt("categoryId", 0); categoryID > 0 {
		args = append(args, categoryID)
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	if priority := c.Query("priority"); priority != "" {
		args = append(args, priority)
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", len(args)))
	}
	switch c.Query("status") {
	case "completed":
		conditions = append(conditions, "t.completed = TRUE")
	case "pending":
		conditions = append(conditions, "t.completed = FALSE")
	}
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate != "" && endDate != "" {
		start, err1 := parseDueDate(startDate)
		end, err2 := parseDueDate(endDate)
		if err1 != nil || err2 != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid date format",
				"success": false,
				"status":  400,
			})
		}
		args = append(args, start)
		conditions = append(conditions, fmt.Sprintf("t.due_date >= $%d", len(args)))
		args = append(args, end)
		conditions = append(conditions, fmt.Sprintf("t.due_date <= $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	// Hitung total untuk pagination
	var totalTasks int
	err := config.DB.QueryRow("SELECT COUNT(*) FROM tasks t WHERE "+where, args...).Scan(&totalTasks)
	if err != nil {
		logger.ErrorLogger.Error("Error counting tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}

	// Kolom sort dibatasi whitelist agar query param tidak bisa
	// menyuntikkan SQL
	sortColumn, ok := sortColumns[c.Query("sort", "createdAt")]
	if !ok {
		sortColumn = "t.created_at"
	}
	direction := "DESC"
	if c.Query("order") == "asc" {
		direction = "ASC"
	}

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, (page-1)*limit)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.category_id, t.title, t.description, t.completed, t.due_date,
			t.priority, t.tags, t.recurrence, t.document, t.created_at, t.updated_at, c.name
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`, where, sortColumn, direction, limitPos, offsetPos)

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		err := rows.Scan(&task.ID, &task.UserID, &task.CategoryID, &task.Title, &task.Description,
			&task.Completed, &task.DueDate, &task.Priority, &task.Tags, &task.Recurrence,
			&task.Document, &task.CreatedAt, &task.UpdatedAt, &task.CategoryName)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning tasks",
				"success": false,
				"status":  500,
			})
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}

	totalPages := int(math.Ceil(float64(totalTasks) / float64(limit)))

	return c.JSON(fiber.Map{
		"message":     "Tasks fetched successfully",
		"success":     true,
		"status":      200,
		"data":        tasks,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// CompleteTask menandai task sebagai selesai. Tidak ada jalur untuk
// membatalkan penyelesaian.
func CompleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var ownerID int
	var completed bool
	err = config.DB.QueryRow("SELECT user_id, completed FROM tasks WHERE id = $1", taskID).Scan(&ownerID, &completed)
	if err != nil {
		logger.ErrorLogger.Error("Task not found", zap.Int("task_id", taskID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if ownerID != userID {
		logger.SecurityLogger.Warn("Complete attempt on foreign task",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if completed {
		return c.Status(409).JSON(fiber.Map{
			"message": "Task already completed",
			"success": false,
			"status":  409,
		})
	}

	// Satu UPDATE atomik, bukan read-modify-write
	var task models.Task
	err = config.DB.QueryRow(`
		UPDATE tasks SET completed = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, category_id, title, description, completed, due_date, priority, tags, recurrence, document, created_at, updated_at`,
		taskID,
	).Scan(&task.ID, &task.UserID, &task.CategoryID, &task.Title, &task.Description, &task.Completed,
		&task.DueDate, &task.Priority, &task.Tags, &task.Recurrence, &task.Document, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error completing task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error completing task",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task completed", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task completed successfully",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// DeleteTask menghapus task beserta lampirannya. Penghapusan lampiran
// best-effort: gagal hapus file tidak membatalkan penghapusan task.
func DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var ownerID int
	var document *string
	err = config.DB.QueryRow("SELECT user_id, document FROM tasks WHERE id = $1", taskID).Scan(&ownerID, &document)
	if err != nil {
		logger.ErrorLogger.Error("Task not found", zap.Int("task_id", taskID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if ownerID != userID {
		logger.SecurityLogger.Warn("Delete attempt on foreign task",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	if document != nil {
		removeUpload(*document)
	}

	_, err = config.DB.Exec("DELETE FROM tasks WHERE id = $1", taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  200,
	})
}
