package apiv1

import (
	"convenios-backend/controllers"
	audithandler "convenios-backend/lib/audit"
	apimodels "convenios-backend/models/api"
	auditapimodels "convenios-backend/models/api/audit"

	"github.com/gofiber/fiber/v2"
)

type auditApiController struct {
	controllers.BaseAPIController
}

func InitAuditApiRouters(app *fiber.App) {
	controller := auditApiController{}
	app.Route("audit", func(router fiber.Router) {
		router.Post("list", controller.list)
	})
}

// @Summary Журнал действий
// @Tags Журнал
// @Description Записи журнала, новые первыми
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 auditapimodels.Filter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]auditapimodels.View}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/audit/list [post]
func (c *auditApiController) list(ctx *fiber.Ctx) error {
	var payload auditapimodels.Filter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := audithandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
