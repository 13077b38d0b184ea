package service

import (
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/util"
	"Blogstone/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*model.Category, error)
	// DeleteCategory 不级联，引用该分类的帖子在下次读取时分类为空
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo) CategoryService {
	return &categoryServiceImpl{categoryRepo: categoryRepo}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	list, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound, "get category")
	}
	return category, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name", "required")
	}

	now := time.Now()
	category := &model.Category{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExist
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name", "required")
	}

	category, err := s.categoryRepo.UpdateCategory(ctx, id, name)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrCategoryExist
	}
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound, "update category")
	}
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		return notFound(err, ErrCategoryNotFound, "delete category")
	}
	return nil
}
