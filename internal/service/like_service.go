package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/kafka"
	"Blogstone/internal/pkg/redis"
	"Blogstone/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	likeLockExpiration = 5 * time.Second
	likeLockRetries    = 20
)

type LikeService interface {
	// ToggleLike 按 slug 切换点赞状态，同一 (viewer, post) 串行执行
	ToggleLike(ctx context.Context, viewer Actor, slug string) (*dto.ToggleLikeResult, error)
	DeleteLike(ctx context.Context, actor Actor, likeID primitive.ObjectID) error
	GetPostLikes(ctx context.Context, postID primitive.ObjectID, viewer Actor) (*dto.PostLikes, error)
}

type likeServiceImpl struct {
	likeRepo repository.LikeRepo
	postRepo repository.PostRepo
	producer kafka.Producer
}

func NewLikeService(likeRepo repository.LikeRepo, postRepo repository.PostRepo, producer kafka.Producer) LikeService {
	return &likeServiceImpl{
		likeRepo: likeRepo,
		postRepo: postRepo,
		producer: producer,
	}
}

func (s *likeServiceImpl) ToggleLike(ctx context.Context, viewer Actor, slug string) (*dto.ToggleLikeResult, error) {
	if viewer.IsAnonymous() {
		return nil, UnauthorizedError
	}

	post, err := s.postRepo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound, "get post by slug")
	}

	lockKey := consts.LikeLock + viewer.ID.Hex() + ":" + post.ID.Hex()
	lockValue := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockValue, likeLockExpiration, likeLockRetries)
	if err != nil {
		return nil, fmt.Errorf("acquire like lock: %w", err)
	}
	if !ok {
		return nil, ErrActionBusy
	}
	defer func() {
		if err := redis.UnLock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			log.WarnContext(ctx, "release like lock failed", "key", lockKey, "err", err)
		}
	}()

	_, err = s.likeRepo.DeleteLike(ctx, viewer.ID, post.ID)
	if err == nil {
		s.producer.Publish(ctx, kafka.NewEngagementEvent(kafka.EventUnlike, viewer.ID, post.ID))
		return &dto.ToggleLikeResult{Liked: false}, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("delete like: %w", err)
	}

	like := &model.Like{UserID: viewer.ID, PostID: post.ID, CreatedAt: time.Now()}
	err = s.likeRepo.CreateLike(ctx, like)
	if errors.Is(err, repository.ErrDuplicate) {
		// 锁过期后的并发写入，以已存在的记录为准
		existing, findErr := s.likeRepo.FindLike(ctx, viewer.ID, post.ID)
		if findErr != nil {
			return nil, fmt.Errorf("find like: %w", findErr)
		}
		return &dto.ToggleLikeResult{Liked: true, Like: existing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}

	s.producer.Publish(ctx, kafka.NewEngagementEvent(kafka.EventLike, viewer.ID, post.ID))
	return &dto.ToggleLikeResult{Liked: true, Like: like}, nil
}

// DeleteLike 删除指定点赞记录，仅限本人或管理员
func (s *likeServiceImpl) DeleteLike(ctx context.Context, actor Actor, likeID primitive.ObjectID) error {
	like, err := s.likeRepo.GetLikeByID(ctx, likeID)
	if err != nil {
		return notFound(err, ErrLikeNotFound, "get like")
	}
	if !actor.CanModify(like.UserID) {
		return UnauthorizedError
	}
	if err = s.likeRepo.DeleteLikeByID(ctx, likeID); err != nil {
		return notFound(err, ErrLikeNotFound, "delete like")
	}
	s.producer.Publish(ctx, kafka.NewEngagementEvent(kafka.EventUnlike, like.UserID, like.PostID))
	return nil
}

// GetPostLikes 帖子不存在时 post 为 null，草稿对非作者返回 404
func (s *likeServiceImpl) GetPostLikes(ctx context.Context, postID primitive.ObjectID, viewer Actor) (*dto.PostLikes, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post != nil && !viewer.CanView(post) {
		return nil, ErrPostNotFound
	}
	likes, err := s.likeRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return &dto.PostLikes{Post: post, Likes: likes}, nil
}
