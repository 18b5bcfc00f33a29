package main

import (
	"context"
	"convenios-backend/config"
	apiv1 "convenios-backend/controllers/v1"
	"convenios-backend/fiberlog"
	"convenios-backend/initializers"
	"convenios-backend/lib/ws"
	"convenios-backend/middleware"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

const (
	bodyLimit   = 1 * 1024 * 1024
	uploadLimit = 20 * 1024 * 1024
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: uploadLimit,
	})
	app.Use(fiberRecover.New())
	if config.Conf.App.ErrNotify != "" {
		app.Use(middleware.ErrNotify(config.Conf.App.ErrNotify))
	}

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	if _, err := os.Stat(swaggerCfg.FilePath); err == nil {
		app.Use(swagger.New(swaggerCfg))
	} else {
		log.Warn("swagger.json не найден, документация API недоступна")
	}

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit: uploadLimit,
	})
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.CronTokenHeader,
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(middleware.WithBodyLimit(bodyLimit, uploadLimit, "/attachment", "/import"))

	// списание доступно планировщику по токену
	apiV1.Use("/settlement", middleware.CronTokenOrAuthorization(), middleware.RbacMiddleware())
	apiV1.Use([]string{"/requests", "/collaborators", "/sla", "/audit", "/profile"},
		middleware.AuthorizationRequired(), middleware.RbacMiddleware())
	apiv1.InitSettlementApiRouters(apiV1)
	apiv1.InitRequestApiRouters(apiV1)
	apiv1.InitCollaboratorApiRouters(apiV1)
	apiv1.InitSlaApiRouters(apiV1)
	apiv1.InitAuditApiRouters(apiV1)
	apiv1.InitProfileApiRouters(apiV1)

	//дашборд
	wsApp := fiber.New()
	app.Mount("/ws", wsApp)
	wsApp.Use(middleware.WsAuthorizationRequired())
	ws.InitWs(wsApp)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
