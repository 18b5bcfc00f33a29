package initializers

import (
	"context"
	"convenios-backend/config"
	"convenios-backend/db"
	"convenios-backend/fiberlog"
	audithandler "convenios-backend/lib/audit"
	requesthandler "convenios-backend/lib/benefit-request"
	collaboratorhandler "convenios-backend/lib/collaborator"
	xlsexport "convenios-backend/lib/export/xls"
	"convenios-backend/lib/notify"
	"convenios-backend/lib/rbac"
	"convenios-backend/lib/realtime/feed"
	"convenios-backend/lib/settlement"
	settlementworker "convenios-backend/lib/settlement/worker"
	"convenios-backend/lib/sla"
	initchecker "convenios-backend/lib/utils/init-checker"
	connectionhub "convenios-backend/lib/ws/hub/connection-hub"
	"time"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	loc, err := config.Conf.Location()
	if err != nil {
		panic(err.Error())
	}
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	rbac.NewHandler()
	audithandler.NewHandler()
	sla.NewHandler()
	notify.NewHandler(config.Conf.Notify.WebhookURL, config.Conf.Notify.WebhookToken, config.Conf.Notify.TimeoutSec)
	xlsexport.NewHandler()
	collaboratorhandler.NewHandler()
	settlement.NewHandler(loc)
	requesthandler.NewHandler(loc)
	feed.NewHandler(db.ConnString, config.Conf.Realtime.Channel, time.Duration(config.Conf.Realtime.ReconnectDelay)*time.Second)
	connectionhub.Init(time.Duration(config.Conf.Realtime.HighlightSec) * time.Second)

	initchecker.CheckInit(
		"db", db.DB,
		"rbac", rbac.Instance,
		"audit", audithandler.Instance,
		"sla", sla.Instance,
		"notify", notify.Instance,
		"xlsexport", xlsexport.Instance,
		"collaborator", collaboratorhandler.Instance,
		"settlement", settlement.Instance,
		"request", requesthandler.Instance,
		"feed", feed.Instance,
		"connectionhub", connectionhub.Instance,
	)

	go feed.Instance.Run(ctx)
	go initWorkers(ctx, loc)
}

func initWorkers(ctx context.Context, loc *time.Location) {
	if !*config.Conf.Settlement.Enabled {
		return
	}
	// Ежемесячное списание платежей по одобренным заявкам
	settlementworker.StartWorker(ctx, loc)
}
