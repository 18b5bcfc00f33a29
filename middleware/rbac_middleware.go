package middleware

import (
	"convenios-backend/lib/rbac"
	apimodels "convenios-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const rbacForbidden = "RBAC_FORBIDDEN"

// RbacMiddleware доступ по правилам rbac, маршрут без правила закрыт
func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if IsCronCall(ctx) {
			return ctx.Next()
		}
		userID := GetUserID(ctx)
		userRole := GetUserRole(ctx)
		if userID == "" || userRole == "" {
			return forbidden(ctx)
		}
		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			log.
				WithField("method", ctx.Method()).
				WithField("path", ctx.Path()).
				Warn("нет правила rbac для маршрута")
			return forbidden(ctx)
		}
		if !handler(userID, userRole, ctx.Path()) {
			return forbidden(ctx)
		}
		return ctx.Next()
	}
}

func forbidden(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
}
