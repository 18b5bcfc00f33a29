package ws

import (
	wsclient "convenios-backend/lib/ws/client"
	connectionhub "convenios-backend/lib/ws/hub/connection-hub"
	"convenios-backend/middleware"
	"convenios-backend/models"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func InitWs(app *fiber.App) {
	app.Use("", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("userID", middleware.GetUserID(ctx))
		ctx.Locals("role", middleware.GetUserRole(ctx))
		return ctx.Next()
	})
	app.Get("/", websocket.New(dashboardHandler))
}

// @Summary Дашборд заявок
// @Tags Websocket Дашборд
// @Description Список заявок в реальном времени. Клиент меняет фильтр сообщением {"action":"filter","categories":[...]}
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 400
// @Failure 403
// @Failure 500
// @router /ws [get]
func dashboardHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	role, _ := c.Locals("role").(models.UserRole)
	sessionID := connectionhub.Instance.AddClient(userID, role, c)
	defer func() {
		connectionhub.Instance.DeleteClient(sessionID)
	}()
	wsclient.NewClient(sessionID, c).Dispatch()
}
