package initializers

import (
	"convenios-backend/config"
	"convenios-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	cfg := config.Conf.Smtp
	if cfg.Host == "" {
		log.Warn("SMTP не настроен, отчеты о списании по почте не отправляются")
	}
	err := smtp.Connect(cfg.User, cfg.Password, cfg.Host, cfg.Port, *cfg.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
}
