package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit uploadPaths - пути загрузки файлов, для них лимит uploadLimit
func WithBodyLimit(limit, uploadLimit int64, uploadPaths ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		maxSize := limit
		for _, path := range uploadPaths {
			if strings.HasSuffix(c.Path(), path) {
				maxSize = uploadLimit
				break
			}
		}
		contentLength := c.Get("Content-Length")
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > maxSize {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"error": fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", maxSize),
				})
			}
		}

		return c.Next()
	}
}
