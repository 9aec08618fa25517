package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"modernblog/internal/config"

	"github.com/google/uuid"
)

type Storage interface {
	UploadCover(ctx context.Context, fileName string, file io.Reader, size int64) (string, string, error)
	DeleteCover(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	m := &MinIOClient{client: client, config: cfg}

	exists, err := client.BucketExists(context.Background(), cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета MinIO: %w", err)
	}
	if !exists {
		err = client.MakeBucket(context.Background(), cfg.MinIO.BucketName,
			minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета MinIO: %w", err)
		}
	}

	return m, nil
}

// UploadCover загружает обложку поста и возвращает имя объекта и публичный
// URL. В базе хранится только URL.
func (m *MinIOClient) UploadCover(ctx context.Context, fileName string, file io.Reader, size int64) (string, string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	objectName := fmt.Sprintf("covers/%d/%02d/%s%s",
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)

	_, err := m.client.PutObject(ctx, m.config.MinIO.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	coverURL := fmt.Sprintf("%s/%s/%s", m.config.MinIO.PublicURL, m.config.MinIO.BucketName, objectName)

	return objectName, coverURL, nil
}

func (m *MinIOClient) DeleteCover(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}
