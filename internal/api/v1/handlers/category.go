package handlers

import (
	"database/sql"

	"taskory/internal/config"
	"taskory/internal/models"
	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Category handlers

func CreateCategory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type CategoryRequest struct {
		Name string `json:"name" validate:"required"`
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create category", zap.Error(err))
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

	// Nama kategori tidak boleh duplikat untuk user yang sama
	var existingID int
	err := config.DB.QueryRow(
		"SELECT id FROM categories WHERE user_id = $1 AND name = $2",
		userID, req.Name,
	).Scan(&existingID)
	if err == nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Category already exists",
			"success": false,
			"status":  409,
		})
	}
	if err != sql.ErrNoRows {
		logger.ErrorLogger.Error("Error checking category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating category",
			"success": false,
			"status":  500,
		})
	}

	var category models.Category
	err = config.DB.QueryRow(
		"INSERT INTO categories (user_id, name) VALUES ($1, $2) RETURNING id, user_id, name, created_at, updated_at",
		userID, req.Name,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error creating category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating category",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Category created", zap.Int("category_id", category.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Category created successfully",
		"success": true,
		"status":  201,
		"data":    category,
	})
}

func ListCategories(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	rows, err := config.DB.Query(
		"SELECT id, user_id, name, created_at, updated_at FROM categories WHERE user_id = $1 ORDER BY name",
		userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching categories", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching categories",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt, &category.UpdatedAt); err != nil {
			logger.ErrorLogger.Error("Error scanning categories", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning categories",
				"success": false,
				"status":  500,
			})
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over categories", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching categories",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Categories fetched successfully",
		"success": true,
		"status":  200,
		"data":    categories,
	})
}

func UpdateCategory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	categoryID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid category ID",
			"success": false,
			"status":  400,
		})
	}

	type CategoryRequest struct {
		Name string `json:"name" validate:"required"`
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
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

	// Update dibatasi ke kategori milik user; kategori orang lain
	// dilaporkan sebagai not found
	var category models.Category
	err = config.DB.QueryRow(`
		UPDATE categories SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, name, created_at, updated_at`,
		req.Name, categoryID, userID,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Category not found", zap.Int("category_id", categoryID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Category not found",
			"success": false,
			"status":  404,
		})
	}

	logger.AuditLogger.Info("Category updated", zap.Int("category_id", categoryID))
	return c.JSON(fiber.Map{
		"message": "Category updated successfully",
		"success": true,
		"status":  200,
		"data":    category,
	})
}

// DeleteCategory menghapus kategori milik user. Task yang masih menunjuk
// ke kategori ini sengaja dibiarkan (orphan-and-ignore).
func DeleteCategory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	categoryID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid category ID",
			"success": false,
			"status":  400,
		})
	}

	result, err := config.DB.Exec(
		"DELETE FROM categories WHERE id = $1 AND user_id = $2",
		categoryID, userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting category",
			"success": false,
			"status":  500,
		})
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Category not found",
			"success": false,
			"status":  404,
		})
	}

	logger.AuditLogger.Info("Category deleted", zap.Int("category_id", categoryID))
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
		"success": true,
		"status":  200,
	})
}
