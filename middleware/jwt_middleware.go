package middleware

import (
	"convenios-backend/config"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const CronTokenHeader = "X-Cron-Token"

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
	})
}

// WsAuthorizationRequired браузер не передает заголовки при открытии websocket, токен допускается в query
func WsAuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims:      jwt.MapClaims{},
		TokenLookup: "header:Authorization,query:token",
		AuthScheme:  "Bearer",
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
	})
}

// CronTokenOrAuthorization внешний планировщик проходит по токену из заголовка, остальные по JWT
func CronTokenOrAuthorization() fiber.Handler {
	jwtHandler := AuthorizationRequired()
	return func(ctx *fiber.Ctx) error {
		cronToken := config.Conf.Auth.CronToken
		if cronToken != "" && ctx.Get(CronTokenHeader) == cronToken {
			ctx.Locals("cron", true)
			return ctx.Next()
		}
		return jwtHandler(ctx)
	}
}
