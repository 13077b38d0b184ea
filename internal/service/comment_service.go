package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/kafka"
	"Blogstone/internal/pkg/util"
	"Blogstone/internal/repository"
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService interface {
	ListComments(ctx context.Context, query *dto.CommentQuery) ([]*model.Comment, *dto.PageDetails, error)
	GetComment(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	CreateComment(ctx context.Context, actor Actor, req *dto.CommentCreateDTO) (*model.Comment, error)
	UpdateComment(ctx context.Context, actor Actor, id primitive.ObjectID, req *dto.CommentUpdateDTO) (*model.Comment, error)
	DeleteComment(ctx context.Context, actor Actor, id primitive.ObjectID) error
	GetPostComments(ctx context.Context, postID primitive.ObjectID, viewer Actor) (*dto.PostComments, error)
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	producer    kafka.Producer
}

func NewCommentService(commentRepo repository.CommentRepo, postRepo repository.PostRepo, producer kafka.Producer) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		producer:    producer,
	}
}

func (s *commentServiceImpl) ListComments(ctx context.Context, query *dto.CommentQuery) ([]*model.Comment, *dto.PageDetails, error) {
	page, limit := util.ParsePage(query.Page, query.Limit)

	var postID *primitive.ObjectID
	if query.PostID != "" {
		id, err := ParseObjectID(query.PostID)
		if err != nil {
			return nil, nil, err
		}
		postID = &id
	}

	list, total, err := s.commentRepo.ListComments(ctx, postID, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list comments: %w", err)
	}
	return list, dto.NewPageDetails(total, page, limit), nil
}

func (s *commentServiceImpl) GetComment(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound, "get comment")
	}
	return comment, nil
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, actor Actor, req *dto.CommentCreateDTO) (*model.Comment, error) {
	if actor.IsAnonymous() {
		return nil, UnauthorizedError
	}
	postID, err := ParseObjectID(req.PostID)
	if err != nil {
		return nil, err
	}
	if _, err = s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, notFound(err, ErrPostNotFound, "get post")
	}

	now := time.Now()
	comment := &model.Comment{
		UserID:    actor.ID,
		PostID:    postID,
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if comment.Content == "" {
		return nil, util.NewValidationError("content", "required")
	}
	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.producer.Publish(ctx, kafka.NewEngagementEvent(kafka.EventComment, actor.ID, postID))
	return comment, nil
}

// UpdateComment 仅评论作者可修改
func (s *commentServiceImpl) UpdateComment(ctx context.Context, actor Actor, id primitive.ObjectID, req *dto.CommentUpdateDTO) (*model.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound, "get comment")
	}
	if actor.IsAnonymous() || comment.UserID != actor.ID {
		return nil, UnauthorizedError
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, util.NewValidationError("content", "required")
	}
	updated, err := s.commentRepo.UpdateComment(ctx, id, content)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound, "update comment")
	}
	return updated, nil
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		return notFound(err, ErrCommentNotFound, "get comment")
	}
	if !actor.CanModify(comment.UserID) {
		return UnauthorizedError
	}
	if err = s.commentRepo.DeleteComment(ctx, id); err != nil {
		return notFound(err, ErrCommentNotFound, "delete comment")
	}
	return nil
}

func (s *commentServiceImpl) GetPostComments(ctx context.Context, postID primitive.ObjectID, viewer Actor) (*dto.PostComments, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post != nil && !viewer.CanView(post) {
		return nil, ErrPostNotFound
	}
	comments, err := s.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &dto.PostComments{Post: post, Comments: comments}, nil
}
