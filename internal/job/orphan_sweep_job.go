package job

import (
	"Blogstone/internal/pkg/logger"
	"Blogstone/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrphanSweepJob 清理帖子已不存在的浏览、点赞与评论记录
type OrphanSweepJob struct {
	postRepo repository.PostRepo
	sweepers map[string]repository.EngagementSweeper
}

func NewOrphanSweepJob(postRepo repository.PostRepo, viewRepo repository.ViewRepo, likeRepo repository.LikeRepo, commentRepo repository.CommentRepo) *OrphanSweepJob {
	return &OrphanSweepJob{
		postRepo: postRepo,
		sweepers: map[string]repository.EngagementSweeper{
			"views":    viewRepo,
			"likes":    likeRepo,
			"comments": commentRepo,
		},
	}
}

func (s *OrphanSweepJob) Run() {
	traceID := "job-orphan-" + uuid.NewString()
	ctx, cancel := context.WithTimeout(context.WithValue(context.Background(), logger.TraceIDKey, traceID), 5*time.Minute)
	defer cancel()

	for name, sweeper := range s.sweepers {
		removed, err := s.sweep(ctx, sweeper)
		if err != nil {
			log.ErrorContext(ctx, "orphan sweep failed", "collection", name, "err", err)
			continue
		}
		if removed > 0 {
			log.InfoContext(ctx, "orphan rows removed", "collection", name, "count", removed)
		}
	}
}

func (s *OrphanSweepJob) sweep(ctx context.Context, sweeper repository.EngagementSweeper) (int64, error) {
	referenced, err := sweeper.DistinctPostIDs(ctx)
	if err != nil || len(referenced) == 0 {
		return 0, err
	}
	existing, err := s.postRepo.ExistingPostIDs(ctx, referenced)
	if err != nil {
		return 0, err
	}

	orphans := make([]primitive.ObjectID, 0)
	for _, id := range referenced {
		if _, ok := existing[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	return sweeper.DeleteByPostIDs(ctx, orphans)
}
