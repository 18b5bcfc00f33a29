package config

import (
	"time"

	"github.com/gotify/configor"
	"github.com/pkg/errors"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		TimeZone   string `default:"America/Sao_Paulo" env:"APP_TIME_ZONE"`
		ErrNotify  string `default:"" env:"APP_ERR_NOTIFY_URL"` // адрес для уведомлений об ошибках 5xx
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"convenios" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"JWT_SECRET"`
		CronToken string `default:"" env:"CRON_TOKEN"` // токен внешнего планировщика для запуска списания
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"convenios" env:"S3_BUCKET_NAME"`
		PublicURL       string `default:"" env:"S3_PUBLIC_URL"` // базовый адрес для публичных ссылок
	}
	Notify struct {
		WebhookURL   string `default:"" env:"NOTIFY_WEBHOOK_URL"`
		WebhookToken string `default:"" env:"NOTIFY_WEBHOOK_TOKEN"`
		TimeoutSec   int    `default:"10" env:"NOTIFY_TIMEOUT_SEC"`
	}
	Settlement struct {
		Enabled    *bool  `default:"true" env:"SETTLEMENT_ENABLED"`
		DayOfMonth int    `default:"5" env:"SETTLEMENT_DAY_OF_MONTH"` // день месяца для автоматического списания
		PageSize   int    `default:"100" env:"SETTLEMENT_PAGE_SIZE"`
		ReportTo   string `default:"" env:"SETTLEMENT_REPORT_TO"` // email для отчета
	}
	Realtime struct {
		Channel        string `default:"benefit_request_changes" env:"REALTIME_CHANNEL"`
		HighlightSec   int    `default:"5" env:"REALTIME_HIGHLIGHT_SEC"`
		ReconnectDelay int    `default:"5" env:"REALTIME_RECONNECT_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}

// Location часовой пояс для расчета рабочих часов и расчетного периода
func (c *Configuration) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "некорректный часовой пояс %v", c.App.TimeZone)
	}
	return loc, nil
}
