package s3client

import (
	"context"
	"convenios-backend/config"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const bucketRegion = "us-east-1"

// NewClient клиент S3 с проверкой наличия бакета
func NewClient(ctx context.Context) (*minio.Client, error) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания клиента S3")
	}
	err = makeBucket(ctx, minioClient, config.Conf.S3.BucketName)
	if err != nil {
		return nil, err
	}
	return minioClient, nil
}

func makeBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrapf(err, "ошибка проверки бакета %v", bucketName)
	}
	if exists {
		return nil
	}
	err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: bucketRegion})
	if err != nil {
		return errors.Wrapf(err, "ошибка создания бакета %v", bucketName)
	}
	// вложения открываются по ссылке из дашборда и бота
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%v/*"]}]}`, bucketName)
	err = client.SetBucketPolicy(ctx, bucketName, policy)
	if err != nil {
		return errors.Wrapf(err, "ошибка настройки доступа к бакету %v", bucketName)
	}
	return nil
}
