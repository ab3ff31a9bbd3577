package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"helphub-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadImageHandler stores a request image under a path namespaced by the
// uploading user and returns its durable public URL. Expects a multipart
// form file named "image".
func UploadImageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
		}

		uploadDir := utils.GetEnv("UPLOAD_DIR", "uploads")
		userDir := filepath.Join(uploadDir, userID)
		if err := os.MkdirAll(userDir, 0755); err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create upload dir"})
		}

		ext := filepath.Ext(fileHeader.Filename)
		filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
		destPath := filepath.Join(userDir, filename)

		if err := c.SaveFile(fileHeader, destPath); err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
		}

		base := utils.GetEnv("BASE_URL", "")
		url := fmt.Sprintf("/uploads/%s/%s", userID, filename)
		if base != "" {
			url = base + url
		}

		return c.Status(http.StatusCreated).JSON(fiber.Map{"url": url})
	}
}
