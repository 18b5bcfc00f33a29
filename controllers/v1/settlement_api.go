package apiv1

import (
	"convenios-backend/controllers"
	"convenios-backend/lib/settlement"
	"convenios-backend/middleware"
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"
	settlementapimodels "convenios-backend/models/api/settlement"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type settlementApiController struct {
	controllers.BaseAPIController
}

func InitSettlementApiRouters(app *fiber.App) {
	controller := settlementApiController{}
	app.Route("settlement", func(router fiber.Router) {
		router.Post("run", controller.run)
		router.Get("runs", controller.listRuns)
		router.Get("runs/:id", controller.getRun)
		router.Get("runs/:id/xlsx", controller.exportRun)
	})
}

// @Summary Запуск списания
// @Tags Списание рассрочки
// @Description Списание очередных платежей за период. Ошибки по отдельным заявкам возвращаются в items, ответ 200
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   X-Cron-Token		header		string	false	"Токен планировщика"
// @Param	body body	 settlementapimodels.RunData	false	"request body"
// @Success 200 {object} settlementapimodels.RunResponse
// @Failure 400 {object} settlementapimodels.RunResponse
// @Failure 403
// @Failure 500 {object} settlementapimodels.RunResponse
// @router /api/v1/settlement/run [post]
func (c *settlementApiController) run(ctx *fiber.Ctx) error {
	var payload settlementapimodels.RunData
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(settlementapimodels.RunResponse{Message: err.Error()})
		}
	}
	if payload.Cycle != "" && !settlement.IsValidCycle(payload.Cycle) {
		return ctx.Status(fiber.StatusBadRequest).JSON(settlementapimodels.RunResponse{
			Message: fmt.Sprintf("некорректный период списания: %v", payload.Cycle),
		})
	}
	actorID := models.SystemUser
	if !middleware.IsCronCall(ctx) {
		actorID = middleware.GetUserID(ctx)
	}
	result, err := settlement.Instance.Run(ctx.UserContext(), payload.Cycle, actorID)
	if errors.Is(err, settlement.ErrStaleCycle) {
		return ctx.Status(fiber.StatusBadRequest).JSON(settlementapimodels.RunResponse{
			Message: err.Error(),
		})
	}
	if err != nil {
		c.GetLogger(ctx).WithError(err).Error("ошибка запуска списания")
		return ctx.Status(fiber.StatusInternalServerError).JSON(settlementapimodels.RunResponse{
			Message: "Ошибка запуска списания",
			Data:    result,
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(settlementapimodels.RunResponse{
		Success: true,
		Data:    result,
	})
}

// @Summary История запусков
// @Tags Списание рассрочки
// @Description История запусков
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   page				query		int		false	"Страница"
// @Param   limit				query		int		false	"Записей на странице"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]settlementapimodels.RunView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/settlement/runs [get]
func (c *settlementApiController) listRuns(ctx *fiber.Ctx) error {
	pagination := apimodels.Pagination{
		Page:  ctx.QueryInt("page", 1),
		Limit: ctx.QueryInt("limit", 20),
	}
	list, rowCount, err := settlement.Instance.ListRuns(pagination)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории списаний")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Результат запуска
// @Tags Списание рассрочки
// @Description Итоги и строки запуска
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=settlementapimodels.RunResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/settlement/runs/{id} [get]
func (c *settlementApiController) getRun(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := settlement.Instance.GetRun(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения запуска списания")
	}
	if resp == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("запуск списания не найден"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выгрузка запуска в Excel
// @Tags Списание рассрочки
// @Description Выгрузка запуска в Excel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/settlement/runs/{id}/xlsx [get]
func (c *settlementApiController) exportRun(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := settlement.Instance.ExportRun(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки запуска списания")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=settlement-%v.xlsx", id))
	return ctx.Status(fiber.StatusOK).SendStream(buffer, buffer.Len())
}
