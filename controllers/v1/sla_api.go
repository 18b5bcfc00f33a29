package apiv1

import (
	"convenios-backend/controllers"
	"convenios-backend/lib/sla"
	"convenios-backend/middleware"
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"
	slaapimodels "convenios-backend/models/api/sla"

	"github.com/gofiber/fiber/v2"
)

type slaApiController struct {
	controllers.BaseAPIController
}

func InitSlaApiRouters(app *fiber.App) {
	controller := slaApiController{}
	app.Route("sla", func(router fiber.Router) {
		router.Get("config", controller.listConfigs)
		router.Put("config", controller.saveConfig)
		router.Delete("config/:category", controller.deleteConfig)
		router.Get("holidays", controller.listHolidays)
		router.Post("holidays", controller.addHoliday)
		router.Delete("holidays/:id", controller.deleteHoliday)
	})
}

// @Summary Настройки SLA
// @Tags SLA
// @Description Пороги SLA по категориям
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]slaapimodels.ConfigView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/sla/config [get]
func (c *slaApiController) listConfigs(ctx *fiber.Ctx) error {
	list, err := sla.Instance.ListConfigs()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения настроек SLA")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Сохранение настройки SLA
// @Tags SLA
// @Description Создание или изменение порогов категории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 slaapimodels.ConfigData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/sla/config [put]
func (c *slaApiController) saveConfig(ctx *fiber.Ctx) error {
	var payload slaapimodels.ConfigData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := sla.Instance.SaveConfig(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения настройки SLA")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Удаление настройки SLA
// @Tags SLA
// @Description Удаление настройки категории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   category       		path    string  				    	true         "категория"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/sla/config/{category} [delete]
func (c *slaApiController) deleteConfig(ctx *fiber.Ctx) error {
	category := models.RequestCategory(ctx.Params("category"))
	if !category.IsValid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("неизвестная категория"))
	}
	err := sla.Instance.DeleteConfig(middleware.GetUserID(ctx), category)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления настройки SLA")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Праздники
// @Tags SLA
// @Description Праздничные дни, не учитываемые в рабочих часах
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   year				query		int		false	"Год, 0 - все"
// @Success 200 {object} apimodels.Response{data=[]slaapimodels.HolidayView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/sla/holidays [get]
func (c *slaApiController) listHolidays(ctx *fiber.Ctx) error {
	list, err := sla.Instance.ListHolidays(ctx.QueryInt("year", 0))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения праздников")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Добавление праздника
// @Tags SLA
// @Description Добавление праздника
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 slaapimodels.HolidayData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/sla/holidays [post]
func (c *slaApiController) addHoliday(ctx *fiber.Ctx) error {
	var payload slaapimodels.HolidayData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := sla.Instance.AddHoliday(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления праздника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Удаление праздника
// @Tags SLA
// @Description Удаление праздника
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/sla/holidays/{id} [delete]
func (c *slaApiController) deleteHoliday(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = sla.Instance.DeleteHoliday(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления праздника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
