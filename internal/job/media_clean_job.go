package job

import (
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/logger"
	"Blogstone/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const mediaCleanupBatch = 100

// BlobDeleter 图片存储的删除能力
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// MediaCleanupJob 删除被替换或随帖子删除的图片
type MediaCleanupJob struct {
	blobs BlobDeleter
}

func NewMediaCleanupJob(blobs BlobDeleter) *MediaCleanupJob {
	return &MediaCleanupJob{
		blobs: blobs,
	}
}

func (s *MediaCleanupJob) Run() {
	traceID := "job-media-" + uuid.NewString()
	ctx, cancel := context.WithTimeout(context.WithValue(context.Background(), logger.TraceIDKey, traceID), time.Minute)
	defer cancel()

	keys, err := redis.PopFromSet(ctx, consts.StaleImageKey, mediaCleanupBatch)
	if err != nil {
		log.ErrorContext(ctx, "pop stale images failed", "err", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	var failed []string
	for _, key := range keys {
		if err = s.blobs.Delete(ctx, key); err != nil {
			log.WarnContext(ctx, "delete stale image failed", "key", key, "err", err)
			failed = append(failed, key)
		}
	}

	if len(failed) > 0 {
		if err = redis.AddToSet(context.WithoutCancel(ctx), consts.StaleImageKey, failed...); err != nil {
			log.ErrorContext(ctx, "requeue stale images failed", "keys", failed, "err", err)
		}
	}
	log.InfoContext(ctx, "media cleanup job finished", "cleaned_count", len(keys)-len(failed), "failed_count", len(failed))
}
