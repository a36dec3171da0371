// Package storage 提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"bench-match-go/internal/config"
	"bench-match-go/internal/model"
	"bench-match-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinIOClient 创建 MinIO 客户端并确保存储桶存在。
func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}
	log.Info("MinIO 客户端初始化成功")

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查 MinIO 存储桶失败: %w", err)
	}
	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", cfg.BucketName)
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("创建 MinIO 存储桶失败: %w", err)
		}
		log.Infof("存储桶 '%s' 创建成功", cfg.BucketName)
	}
	return client, nil
}

// Archiver 将 shortlist 快照以 JSON 形式写入对象存储。
type Archiver struct {
	client *minio.Client
	bucket string
}

// NewArchiver 创建一个 Archiver。
func NewArchiver(client *minio.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// ObjectName 返回 shortlist 快照的对象名，按需求分目录。
func ObjectName(view *model.ShortlistView) string {
	return fmt.Sprintf("shortlists/%s/%s.json", view.RequirementID, view.ShortlistID)
}

// Archive 上传 shortlist 快照。
func (a *Archiver) Archive(ctx context.Context, view *model.ShortlistView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	name := ObjectName(view)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("上传 shortlist 快照失败: %w", err)
	}
	log.Infof("[Archiver] shortlist 快照已归档, Object: %s", name)
	return nil
}
