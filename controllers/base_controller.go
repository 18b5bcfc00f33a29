package controllers

import (
	requesthandler "convenios-backend/lib/benefit-request"
	"convenios-backend/middleware"
	apimodels "convenios-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError отказ в доступе отдается как 403, остальное как 500 с текстом для пользователя
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, userMsg string) error {
	if errors.Is(err, requesthandler.ErrForbidden) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
	}
	logger.WithError(err).Error(userMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(userMsg))
}
