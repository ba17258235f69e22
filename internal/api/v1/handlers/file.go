package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"taskory/internal/config"
	"taskory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// File Handling
// Fungsi untuk validasi file
func validateFile(file *multipart.FileHeader) error {
	// Validasi ukuran file maksimal 5MB
	if file.Size > 5<<20 {
		return fiber.NewError(fiber.StatusBadRequest, "File size exceeds the limit of 5MB")
	}

	// Validasi ekstensi file
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}
	if !allowedExts[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "File type not allowed")
	}

	// Validasi tipe konten
	contentType := file.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") && !strings.Contains(contentType, "pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "File must be an image or PDF")
	}

	return nil
}

// saveUpload memvalidasi dan menyimpan file ke folder uploads, lalu
// mengembalikan URL file yang bisa disimpan di database.
func saveUpload(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if err := validateFile(file); err != nil {
		return "", err
	}

	// Pastikan folder uploads sudah ada
	if _, err := os.Stat(config.UploadDir); os.IsNotExist(err) {
		if err := os.Mkdir(config.UploadDir, os.ModePerm); err != nil {
			return "", err
		}
	}

	// Ubah nama file menjadi unik (berdasarkan timestamp)
	newFilename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	filePath := path.Join(config.UploadDir, newFilename)
	if err := c.SaveFile(file, filePath); err != nil {
		return "", err
	}

	return "/uploads/" + newFilename, nil
}

// removeUpload menghapus file berdasarkan URL yang tersimpan. Best-effort:
// kegagalan hanya dicatat di log, tidak menggagalkan operasi pemanggil.
func removeUpload(fileURL string) {
	filename := path.Base(fileURL)
	if filename == "." || filename == "/" {
		return
	}
	if err := os.Remove(path.Join(config.UploadDir, filename)); err != nil {
		logger.ErrorLogger.Error("Error removing uploaded file",
			zap.String("file", filename), zap.Error(err))
	}
}

// Fungsi untuk mendapatkan file
func GetFile(c *fiber.Ctx) error {
	filename := c.Params("filename")
	filePath := path.Join(config.UploadDir, filename)
	return c.SendFile(filePath)
}
