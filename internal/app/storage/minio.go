package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// Окна действия подписанных ссылок
const (
	DownloadURLExpiry = 60 * time.Second // Скачивание документов
	ContractURLExpiry = time.Hour        // Просмотр контракта
)

type MinIOClient struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOClient создает клиент для MinIO
func NewMinIOClient(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Создаем bucket если не существует
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", bucketName)
	}

	return &MinIOClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadObject загружает объект по заданному ключу
func (m *MinIOClient) UploadObject(objectKey string, data []byte, contentType string) error {
	ctx := context.Background()

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	reader := bytes.NewReader(data)
	_, err := m.client.PutObject(ctx, m.bucketName, objectKey, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	logrus.Infof("Object %s uploaded successfully", objectKey)
	return nil
}

// DeleteObject удаляет объект из MinIO
func (m *MinIOClient) DeleteObject(objectKey string) error {
	ctx := context.Background()

	err := m.client.RemoveObject(ctx, m.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	logrus.Infof("Object %s deleted successfully", objectKey)
	return nil
}

// PresignedURL возвращает временную ссылку на объект
func (m *MinIOClient) PresignedURL(objectKey string, expiry time.Duration) (string, error) {
	ctx := context.Background()

	url, err := m.client.PresignedGetObject(ctx, m.bucketName, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// ObjectExists проверяет существует ли объект
func (m *MinIOClient) ObjectExists(objectKey string) (bool, error) {
	ctx := context.Background()

	_, err := m.client.StatObject(ctx, m.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object: %w", err)
	}

	return true, nil
}

// ContentTypeByExt определяет content type по расширению файла
func ContentTypeByExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".html":
		return "text/html"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".txt":
		return "text/plain"
	}
	return "application/octet-stream"
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// InternalDocumentKey строит ключ для внутреннего документа:
// <категория в нижнем регистре>/<epoch_ms>-<9 случайных символов>.<ext>
func InternalDocumentKey(category, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return fmt.Sprintf("%s/%d-%s%s",
		strings.ToLower(category),
		time.Now().UnixMilli(),
		randomSuffix(9),
		ext)
}

// ProjectDocumentKey строит ключ для документа проекта
func ProjectDocumentKey(projectID uint, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return fmt.Sprintf("%d/documents/%d-%s%s",
		projectID,
		time.Now().UnixMilli(),
		randomSuffix(9),
		ext)
}

// ContractKey строит ключ для сгенерированного контракта:
// <project_id>/contracts/contract_<код или id>_<epoch_ms>.html
func ContractKey(projectID uint, trackingCode string) string {
	code := trackingCode
	if code == "" {
		code = fmt.Sprintf("%08d", projectID)
	}
	return fmt.Sprintf("%d/contracts/contract_%s_%d.html",
		projectID, code, time.Now().UnixMilli())
}

// AvatarKey строит ключ аватара пользователя
func AvatarKey(userID uint, originalFilename string) string {
	return fmt.Sprintf("avatars/%d%s", userID, filepath.Ext(originalFilename))
}
