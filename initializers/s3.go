package initializers

import (
	"context"
	filestorage "convenios-backend/lib/file-storage"
	s3client "convenios-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	client, err := s3client.NewClient(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3, вложения недоступны")
		return
	}
	filestorage.NewInstance(client)
	log.Info("S3 клиент успешно инициализирован")
}
