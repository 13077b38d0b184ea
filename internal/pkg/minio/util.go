package minio

import (
	"Blogstone/internal/api/config"
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Store 基于全局客户端的对象存储，上传返回可直接访问的绝对 URL
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Put 上传图片并返回公共 URL
func (s *Store) Put(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	objectName := NewObjectName(ext)
	if _, err := UploadFile(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return GetPublicURL(objectName), nil
}

// Delete 删除对象
func (s *Store) Delete(ctx context.Context, key string) error {
	return DeleteFile(ctx, key)
}

// KeyFromURL 从公共 URL 还原对象名，非本桶的 URL 返回 false
func (s *Store) KeyFromURL(url string) (string, bool) {
	return ObjectNameFromURL(url)
}

// NewObjectName 生成按日期分目录的对象名
func NewObjectName(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("posts/%s/%s.%s", time.Now().Format("2006/01/02"), uuid.NewString(), ext)
}

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, objectName string, reader *bytes.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// DeleteFile 删除MinIO中的文件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, BucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// publicPrefix 对象公共访问前缀，以 / 结尾
func publicPrefix() string {
	cfg := config.Cfg.MinIO
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/") + "/" + cfg.Bucket + "/"
	}

	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", protocol, cfg.Endpoint, cfg.Bucket)
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	return publicPrefix() + strings.TrimLeft(objectName, "/")
}

// ObjectNameFromURL GetPublicURL 的逆操作
func ObjectNameFromURL(url string) (string, bool) {
	prefix := publicPrefix()
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := path.Clean(strings.TrimPrefix(url, prefix))
	if key == "." || strings.HasPrefix(key, "..") {
		return "", false
	}
	return key, true
}
