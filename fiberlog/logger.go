package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const accessMessage = "запрос api"

func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields, len(ftm))
	for k, ft := range ftm {
		value := ft(c, d)
		if strValue, ok := value.(string); ok && strValue == "" {
			continue
		}
		f[k] = value
	}
	return f
}

// New middleware журнала запросов: 5xx пишутся как error, 4xx как warn
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Skip == nil {
		cfg.Skip = SkipTechnical
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		if cfg.Skip(c) {
			return c.Next()
		}
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		if err != nil {
			// статус ответа выставляет обработчик ошибок fiber
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}
		d.end = time.Now()

		entry := logger.WithFields(getLogrusFields(ftm, c, d))
		status := c.Response().StatusCode()
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error(accessMessage)
		case status >= fiber.StatusBadRequest:
			entry.Warn(accessMessage)
		default:
			entry.Info(accessMessage)
		}
		return err
	}
}
