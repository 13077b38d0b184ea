package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/repository"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ViewService interface {
	// ListUserViews 当前用户的浏览记录，附带帖子标题
	ListUserViews(ctx context.Context, userID primitive.ObjectID) ([]*dto.ViewItem, error)
}

type viewServiceImpl struct {
	viewRepo repository.ViewRepo
	postRepo repository.PostRepo
}

func NewViewService(viewRepo repository.ViewRepo, postRepo repository.PostRepo) ViewService {
	return &viewServiceImpl{
		viewRepo: viewRepo,
		postRepo: postRepo,
	}
}

func (s *viewServiceImpl) ListUserViews(ctx context.Context, userID primitive.ObjectID) ([]*dto.ViewItem, error) {
	views, err := s.viewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}

	postIDs := make([]primitive.ObjectID, 0, len(views))
	for _, v := range views {
		postIDs = append(postIDs, v.PostID)
	}
	posts, err := s.postRepo.GetPostsByIDs(ctx, uniqueIDs(postIDs))
	if err != nil {
		return nil, fmt.Errorf("load viewed posts: %w", err)
	}
	titles := make(map[primitive.ObjectID]string, len(posts))
	for _, p := range posts {
		titles[p.ID] = p.Title
	}

	items := make([]*dto.ViewItem, 0, len(views))
	for _, v := range views {
		item := &dto.ViewItem{ID: v.ID, CreatedAt: v.CreatedAt}
		if title, ok := titles[v.PostID]; ok {
			item.Post = &dto.PostBrief{ID: v.PostID, Title: title}
		}
		items = append(items, item)
	}
	return items, nil
}
