package initializers

import (
	"convenios-backend/config"
	"convenios-backend/db"
)

func InitDBConnection() {
	err := db.Connect(config.Conf.Database.Host, config.Conf.Database.Port, config.Conf.Database.Name,
		config.Conf.Database.User, config.Conf.Database.Password, *config.Conf.Database.DebugMode, *config.Conf.Database.MigrateOnStart,
		config.Conf.Realtime.Channel)
	if err != nil {
		panic(err.Error())
	}

	db.InitPreload()
}
