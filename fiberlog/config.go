package fiberlog

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Config настройки middleware журнала запросов
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// Skip запросы, которые не пишутся в журнал
	Skip func(c *fiber.Ctx) bool
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagUserID,
	},
	Skip: SkipTechnical,
}

// SkipTechnical preflight и документация
func SkipTechnical(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/swagger")
}
