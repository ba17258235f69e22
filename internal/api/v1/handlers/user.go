package handlers

import (
	"database/sql"

	"taskory/internal/config"
	"taskory/internal/models"
	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// User handlers

// GetMe mengembalikan profil user yang sedang login (tanpa password)
func GetMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	var user models.User
	err := config.DB.QueryRow(
		"SELECT id, name, email, avatar, created_at, updated_at FROM users WHERE id = $1",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("User not found", zap.Int("user_id", userID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	return c.JSON(fiber.Map{
		"message": "User found",
		"success": true,
		"status":  200,
		"data":    user,
	})
}

// UpdateMe memperbarui nama/email dan avatar (opsional, multipart)
func UpdateMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type UpdateUserRequest struct {
		Name  string `json:"name" form:"name"`
		Email string `json:"email" form:"email"`
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update user", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	// Cek apakah email sudah dipakai user lain
	if req.Email != "" {
		var existingID int
		err := config.DB.QueryRow(
			"SELECT id FROM users WHERE email = $1 AND id != $2",
			req.Email, userID,
		).Scan(&existingID)
		if err == nil {
			logger.SecurityLogger.Warn("Email already in use", zap.String("email", req.Email))
			return c.Status(409).JSON(fiber.Map{
				"message": "Email already in use",
				"success": false,
				"status":  409,
			})
		}
		if err != sql.ErrNoRows {
			logger.ErrorLogger.Error("Error checking email", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error updating user",
				"success": false,
				"status":  500,
			})
		}
	}

	// Ambil data user sekarang untuk cek avatar lama
	var currentAvatar *string
	err := config.DB.QueryRow("SELECT avatar FROM users WHERE id = $1", userID).Scan(&currentAvatar)
	if err != nil {
		logger.ErrorLogger.Error("User not found", zap.Int("user_id", userID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	// Upload avatar baru jika ada; avatar lama dihapus best-effort
	avatar := currentAvatar
	if file, err := c.FormFile("avatar"); err == nil {
		fileURL, err := saveUpload(c, file)
		if err != nil {
			logger.ErrorLogger.Error("Error uploading avatar", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": err.Error(),
				"success": false,
				"status":  400,
			})
		}
		if currentAvatar != nil {
			removeUpload(*currentAvatar)
		}
		avatar = &fileURL
	}

	var user models.User
	err = config.DB.QueryRow(`
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
			email = COALESCE(NULLIF($2, ''), email),
			avatar = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, email, avatar, created_at, updated_at`,
		req.Name, req.Email, avatar, userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error updating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating user",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("User updated", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"success": true,
		"status":  200,
		"data":    user,
	})
}

// UpdatePassword mengganti password setelah memverifikasi password lama
func UpdatePassword(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type UpdatePasswordRequest struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}

	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update password", zap.Error(err))
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

	var hashedPassword string
	err := config.DB.QueryRow("SELECT password FROM users WHERE id = $1", userID).Scan(&hashedPassword)
	if err != nil {
		logger.ErrorLogger.Error("User not found", zap.Int("user_id", userID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.CurrentPassword)); err != nil {
		logger.SecurityLogger.Warn("Invalid current password", zap.Int("user_id", userID))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	// Password baru tidak boleh sama dengan yang lama
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.NewPassword)); err == nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "New password cannot be the same as the current password",
			"success": false,
			"status":  400,
		})
	}

	newHashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}

	_, err = config.DB.Exec(
		"UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2",
		string(newHashed), userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating password",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Password updated", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
		"success": true,
		"status":  200,
	})
}

// DeleteMe menghapus akun user. Task dan kategori milik user sengaja
// tidak ikut dihapus (orphan-and-ignore); avatar dihapus best-effort.
func DeleteMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	var avatar *string
	err := config.DB.QueryRow(
		"DELETE FROM users WHERE id = $1 RETURNING avatar",
		userID,
	).Scan(&avatar)
	if err != nil {
		logger.ErrorLogger.Error("User not found", zap.Int("user_id", userID), zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	if avatar != nil {
		removeUpload(*avatar)
	}

	logger.AuditLogger.Info("User deleted", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
		"success": true,
		"status":  200,
	})
}
