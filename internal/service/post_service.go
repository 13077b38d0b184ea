package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/redis"
	"Blogstone/internal/pkg/util"
	"Blogstone/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageUpload 上传的原始图片
type ImageUpload struct {
	Filename string
	Data     []byte
}

type PostService interface {
	ListPosts(ctx context.Context, query *dto.PostQuery, viewer Actor) ([]*dto.PostView, *dto.PageDetails, error)
	GetPostDetail(ctx context.Context, postID primitive.ObjectID, viewer Actor) (*dto.PostView, error)
	CreatePost(ctx context.Context, author Actor, req *dto.PostCreateDTO, image *ImageUpload) (*dto.PostView, error)
	UpdatePost(ctx context.Context, actor Actor, postID primitive.ObjectID, req *dto.PostUpdateDTO, image *ImageUpload) (*dto.PostView, error)
	DeletePost(ctx context.Context, actor Actor, postID primitive.ObjectID) error
}

type postServiceImpl struct {
	postRepo      repository.PostRepo
	categoryRepo  repository.CategoryRepo
	aggregation   AggregationService
	blobStore     BlobStore
	imageMaxWidth int
}

func NewPostService(
	postRepo repository.PostRepo,
	categoryRepo repository.CategoryRepo,
	aggregation AggregationService,
	blobStore BlobStore,
	imageMaxWidth int,
) PostService {
	return &postServiceImpl{
		postRepo:      postRepo,
		categoryRepo:  categoryRepo,
		aggregation:   aggregation,
		blobStore:     blobStore,
		imageMaxWidth: imageMaxWidth,
	}
}

func (s *postServiceImpl) ListPosts(ctx context.Context, query *dto.PostQuery, viewer Actor) ([]*dto.PostView, *dto.PageDetails, error) {
	page, limit := util.ParsePage(query.Page, query.Limit)

	filter := &repository.PostFilter{
		Search:   query.Search,
		Status:   query.Status,
		Sort:     query.Sort,
		ViewerID: viewer.ID,
	}
	if query.Category != "" {
		id, err := ParseObjectID(query.Category)
		if err != nil {
			return nil, nil, err
		}
		filter.CategoryID = &id
	}
	if query.Author != "" {
		id, err := ParseObjectID(query.Author)
		if err != nil {
			return nil, nil, err
		}
		filter.AuthorID = &id
	}

	posts, total, err := s.postRepo.ListPosts(ctx, filter, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}
	return s.aggregation.DecorateMany(ctx, posts, viewer.ID), dto.NewPageDetails(total, page, limit), nil
}

// GetPostDetail 先记录浏览再装饰，保证本次返回的浏览数包含刚记录的一次
func (s *postServiceImpl) GetPostDetail(ctx context.Context, postID primitive.ObjectID, viewer Actor) (*dto.PostView, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound, "get post")
	}
	if !viewer.CanView(post) {
		return nil, ErrPostNotFound
	}

	if err = s.aggregation.RecordViewIfAbsent(ctx, viewer.ID, post.ID); err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}
	return s.aggregation.Decorate(ctx, post, viewer.ID), nil
}

func (s *postServiceImpl) CreatePost(ctx context.Context, author Actor, req *dto.PostCreateDTO, image *ImageUpload) (*dto.PostView, error) {
	if author.IsAnonymous() {
		return nil, UnauthorizedError
	}

	now := time.Now()
	post := &model.Post{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Image:     strings.TrimSpace(req.Image),
		Status:    req.Status,
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Status == "" {
		post.Status = model.PostStatusPublished
	}
	if post.IsPublished() {
		post.PublishedDate = &now
	}
	post.CategoryID = s.resolveCategory(ctx, req.CategoryID)

	// 图片上传失败时不写库
	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	for attempt := 0; ; attempt++ {
		post.Slug = util.GenerateSlug(post.Title)
		err := s.postRepo.CreatePost(ctx, post)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt >= 2 {
			return nil, fmt.Errorf("create post: %w", err)
		}
	}

	log.InfoContext(ctx, "post created", "post_id", post.ID.Hex(), "author", author.ID.Hex())
	return s.aggregation.Decorate(ctx, post, author.ID), nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, actor Actor, postID primitive.ObjectID, req *dto.PostUpdateDTO, image *ImageUpload) (*dto.PostView, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound, "get post")
	}
	if !actor.CanModify(post.AuthorID) {
		return nil, UnauthorizedError
	}

	oldImage := post.Image
	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	} else if req.Image != nil {
		post.Image = strings.TrimSpace(*req.Image)
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.CategoryID != nil {
		post.CategoryID = s.resolveCategory(ctx, *req.CategoryID)
	}
	if req.Status != nil {
		wasPublished := post.IsPublished()
		post.Status = *req.Status
		if post.IsPublished() && !wasPublished {
			now := time.Now()
			post.PublishedDate = &now
		}
	}
	post.UpdatedAt = time.Now()

	if err = s.postRepo.UpdatePost(ctx, post); err != nil {
		return nil, notFound(err, ErrPostNotFound, "update post")
	}

	if oldImage != post.Image {
		s.queueStaleImage(ctx, oldImage)
	}
	return s.aggregation.Decorate(ctx, post, actor.ID), nil
}

// DeletePost 只删除帖子本身，浏览、点赞与评论记录保留
func (s *postServiceImpl) DeletePost(ctx context.Context, actor Actor, postID primitive.ObjectID) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return notFound(err, ErrPostNotFound, "get post")
	}
	if !actor.CanModify(post.AuthorID) {
		return UnauthorizedError
	}

	if err = s.postRepo.DeletePost(ctx, postID); err != nil {
		return notFound(err, ErrPostNotFound, "delete post")
	}
	s.queueStaleImage(ctx, post.Image)
	log.InfoContext(ctx, "post deleted", "post_id", postID.Hex(), "by", actor.ID.Hex())
	return nil
}

// resolveCategory 分类不存在时返回 nil
func (s *postServiceImpl) resolveCategory(ctx context.Context, raw string) *primitive.ObjectID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil
	}
	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.WarnContext(ctx, "resolve category failed", "category_id", raw, "err", err)
		}
		return nil
	}
	return &category.ID
}

func (s *postServiceImpl) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	normalized, err := util.NormalizeImage(image.Data, s.imageMaxWidth)
	if err != nil {
		return "", ErrFileNotSupported
	}
	url, err := s.blobStore.Put(ctx, normalized.Data, normalized.ContentType, normalized.Ext)
	if err != nil {
		log.ErrorContext(ctx, "upload image failed", "filename", image.Filename, "err", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return url, nil
}

// queueStaleImage 旧图片交给定时任务清理，不阻塞请求
func (s *postServiceImpl) queueStaleImage(ctx context.Context, url string) {
	key, ok := s.blobStore.KeyFromURL(url)
	if !ok {
		return
	}
	if err := redis.AddToSet(ctx, consts.StaleImageKey, key); err != nil {
		log.WarnContext(ctx, "queue stale image failed", "key", key, "err", err)
	}
}
