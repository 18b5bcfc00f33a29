package apiv1

import (
	"convenios-backend/controllers"
	collaboratorhandler "convenios-backend/lib/collaborator"
	"convenios-backend/middleware"
	apimodels "convenios-backend/models/api"
	collaboratorapimodels "convenios-backend/models/api/collaborator"
	"io"

	"github.com/gofiber/fiber/v2"
)

type collaboratorApiController struct {
	controllers.BaseAPIController
}

func InitCollaboratorApiRouters(app *fiber.App) {
	controller := collaboratorApiController{}
	app.Route("collaborators", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("import", controller.importFile)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
		})
	})
}

// @Summary Список
// @Tags Сотрудник
// @Description Список
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 collaboratorapimodels.Filter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]collaboratorapimodels.View}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collaborators/list [post]
func (c *collaboratorApiController) list(ctx *fiber.Ctx) error {
	var payload collaboratorapimodels.Filter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := collaboratorhandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка сотрудников")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение по ИД
// @Tags Сотрудник
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=collaboratorapimodels.View}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collaborators/{id} [get]
func (c *collaboratorApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := collaboratorhandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	if resp == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("сотрудник не найден"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление
// @Tags Сотрудник
// @Description Обновление; изменение лимита проверяет версию записи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 collaboratorapimodels.EditData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collaborators/{id} [put]
func (c *collaboratorApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload collaboratorapimodels.EditData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := collaboratorhandler.Instance.Update(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления сотрудника")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление
// @Tags Сотрудник
// @Description Удаление сотрудника без заявок
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collaborators/{id} [delete]
func (c *collaboratorApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := collaboratorhandler.Instance.Delete(middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления сотрудника")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Импорт
// @Tags Сотрудник
// @Description Импорт из CSV или XLSX: name, tax_id, phone, unit, credit_limit
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file 	true 	"CSV/XLSX файл"
// @Success 200 {object} apimodels.Response{data=collaboratorapimodels.ImportResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/collaborators/import [post]
func (c *collaboratorApiController) importFile(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось получить файл"))
	}
	reader, err := file.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	result, hMsg, err := collaboratorhandler.Instance.Import(ctx.UserContext(), middleware.GetUserID(ctx), file.Filename, data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка импорта сотрудников")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
