package apiv1

import (
	"convenios-backend/controllers"
	"convenios-backend/lib/rbac"
	"convenios-backend/middleware"
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type profileApiController struct {
	controllers.BaseAPIController
}

func InitProfileApiRouters(app *fiber.App) {
	controller := profileApiController{}
	app.Route("profile", func(router fiber.Router) {
		router.Get("permissions", controller.permissions)
	})
}

type PermissionsView struct {
	UserID      string                                `json:"user_id"`
	Role        models.UserRole                       `json:"role"`
	RoleName    string                                `json:"role_name"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
	Categories  []models.RequestCategory              `json:"categories"`
}

// @Summary Права пользователя
// @Tags Профиль
// @Description Права по модулям и доступные категории заявок
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=apiv1.PermissionsView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile/permissions [get]
func (c *profileApiController) permissions(ctx *fiber.Ctx) error {
	viewer := middleware.GetViewer(ctx)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(PermissionsView{
		UserID:      viewer.UserID,
		Role:        viewer.Role,
		RoleName:    viewer.Role.ToHuman(),
		Permissions: rbac.Instance.GetPermissions(viewer.Role),
		Categories:  viewer.Categories,
	}))
}
