package filestorage

import (
	"bytes"
	"context"
	"convenios-backend/config"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

const ContentTypePdf = "application/pdf"

type Provider interface {
	// Upload сохраняет файл и возвращает публичную ссылку
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (url string, err error)
}

var Instance Provider

type impl struct {
	s3client   *minio.Client
	bucketName string
	publicURL  string
}

func NewInstance(s3client *minio.Client) {
	publicURL := config.Conf.S3.PublicURL
	if publicURL == "" {
		scheme := "http"
		if *config.Conf.S3.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%v://%v", scheme, config.Conf.S3.Endpoint)
	}
	Instance = &impl{
		s3client:   s3client,
		bucketName: config.Conf.S3.BucketName,
		publicURL:  publicURL,
	}
}

// RequestDocKey путь документа заявки в хранилище
func RequestDocKey(requestID string) string {
	return fmt.Sprintf("requests/%v/%v.pdf", requestID, uuid.NewString())
}

func (i impl) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (url string, err error) {
	_, err = i.s3client.PutObject(ctx, i.bucketName, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "ошибка загрузки файла %v", objectKey)
	}
	return PublicURL(i.publicURL, i.bucketName, objectKey), nil
}

func PublicURL(baseURL, bucketName, objectKey string) string {
	return fmt.Sprintf("%v/%v/%v", strings.TrimRight(baseURL, "/"), bucketName, objectKey)
}
