package middleware

import (
	"convenios-backend/lib/rbac"
	authutils "convenios-backend/lib/utils/auth-utils"
	"convenios-backend/models"
	requestapimodels "convenios-backend/models/api/request"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if stringSub, ok := sub.(string); ok {
			return stringSub
		}
	}
	return ""
}

func GetUserName(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if name, exist := claims["name"]; exist {
		if stringName, ok := name.(string); ok {
			return stringName
		}
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func IsCronCall(ctx *fiber.Ctx) bool {
	cron, _ := ctx.Locals("cron").(bool)
	return cron
}

// GetViewer пользователь запроса и категории заявок, доступные его роли
func GetViewer(ctx *fiber.Ctx) requestapimodels.Viewer {
	role := GetUserRole(ctx)
	return requestapimodels.Viewer{
		UserID:     GetUserID(ctx),
		UserName:   GetUserName(ctx),
		Role:       role,
		Categories: rbac.Instance.GetCategories(role),
	}
}
