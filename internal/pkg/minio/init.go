package minio

import (
	"Blogstone/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// BucketName 帖子图片存储桶
	BucketName string
)

// publicReadPolicy 允许匿名读取桶内对象
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// Init 初始化 MinIO 客户端
func Init(cfg config.MinIOConfig) error {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	Client = client
	BucketName = cfg.Bucket
	return EnsureBucket(context.Background())
}

// EnsureBucket 确保存储桶存在且可公开读取
func EnsureBucket(ctx context.Context) error {
	exists, err := Client.BucketExists(ctx, BucketName)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = Client.MakeBucket(ctx, BucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketName, err)
		}
		log.Info("MinIO bucket created", "bucket", BucketName)
	}

	if err = Client.SetBucketPolicy(ctx, BucketName, fmt.Sprintf(publicReadPolicy, BucketName)); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}
