package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/kafka"
	"Blogstone/internal/pkg/util"
	"Blogstone/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// AggregationService 为帖子计算面向当前浏览者的派生字段，并记录浏览
type AggregationService interface {
	// RecordViewIfAbsent 每个 (viewer, post) 至多记录一次，viewer 为空时不做任何事
	RecordViewIfAbsent(ctx context.Context, viewerID, postID primitive.ObjectID) error
	Decorate(ctx context.Context, post *model.Post, viewerID primitive.ObjectID) *dto.PostView
	DecorateMany(ctx context.Context, posts []*model.Post, viewerID primitive.ObjectID) []*dto.PostView
}

// ImageOptions 图片地址规范化配置
type ImageOptions struct {
	// BaseURL 为空时使用请求上下文中的地址
	BaseURL      string
	DefaultImage string
}

type aggregationServiceImpl struct {
	userRepo     repository.UserRepo
	categoryRepo repository.CategoryRepo
	viewRepo     repository.ViewRepo
	likeRepo     repository.LikeRepo
	commentRepo  repository.CommentRepo
	producer     kafka.Producer
	image        ImageOptions
}

func NewAggregationService(
	userRepo repository.UserRepo,
	categoryRepo repository.CategoryRepo,
	viewRepo repository.ViewRepo,
	likeRepo repository.LikeRepo,
	commentRepo repository.CommentRepo,
	producer kafka.Producer,
	image ImageOptions,
) AggregationService {
	if image.DefaultImage == "" {
		image.DefaultImage = consts.DefaultImage
	}
	return &aggregationServiceImpl{
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		viewRepo:     viewRepo,
		likeRepo:     likeRepo,
		commentRepo:  commentRepo,
		producer:     producer,
		image:        image,
	}
}

func (s *aggregationServiceImpl) RecordViewIfAbsent(ctx context.Context, viewerID, postID primitive.ObjectID) error {
	if viewerID.IsZero() {
		return nil
	}

	exists, err := s.viewRepo.CheckViewExists(ctx, viewerID, postID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.viewRepo.CreateView(ctx, &model.View{UserID: viewerID, PostID: postID, CreatedAt: time.Now()})
	if errors.Is(err, repository.ErrDuplicate) {
		// 并发请求已写入
		return nil
	}
	if err != nil {
		return err
	}

	s.producer.Publish(ctx, kafka.NewEngagementEvent(kafka.EventView, viewerID, postID))
	return nil
}

// Decorate 并发加载作者、分类与互动数据，任一查询失败只降级对应字段
func (s *aggregationServiceImpl) Decorate(ctx context.Context, post *model.Post, viewerID primitive.ObjectID) *dto.PostView {
	view := s.baseView(ctx, post)

	var (
		author    *model.User
		category  *model.Category
		comments  []*model.Comment
		likes     []*model.Like
		viewCount int64
	)
	var g errgroup.Group

	g.Go(func() error {
		var err error
		author, err = s.userRepo.GetUserByID(ctx, post.AuthorID)
		if err != nil && !repository.IsNotFound(err) {
			log.WarnContext(ctx, "load post author failed", "post_id", post.ID.Hex(), "err", err)
		}
		return nil
	})
	g.Go(func() error {
		if post.CategoryID == nil {
			return nil
		}
		var err error
		category, err = s.categoryRepo.GetCategoryByID(ctx, *post.CategoryID)
		if err != nil && !repository.IsNotFound(err) {
			log.WarnContext(ctx, "load post category failed", "post_id", post.ID.Hex(), "err", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if comments, err = s.commentRepo.ListByPostID(ctx, post.ID); err != nil {
			log.WarnContext(ctx, "load comments failed, treated as empty", "post_id", post.ID.Hex(), "err", err)
			comments = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if likes, err = s.likeRepo.ListByPostID(ctx, post.ID); err != nil {
			log.WarnContext(ctx, "load likes failed, treated as empty", "post_id", post.ID.Hex(), "err", err)
			likes = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if viewCount, err = s.viewRepo.CountByPostID(ctx, post.ID); err != nil {
			log.WarnContext(ctx, "count views failed, treated as zero", "post_id", post.ID.Hex(), "err", err)
			viewCount = 0
		}
		return nil
	})
	_ = g.Wait()

	if author != nil {
		view.Author = toUserBrief(author)
	}
	if category != nil {
		view.Category = &dto.CategoryDTO{ID: category.ID, Name: category.Name}
	}
	view.Comments = s.commentViews(ctx, comments)
	view.CommentCount = int64(len(view.Comments))
	applyLikes(view, likes, viewerID)
	view.ViewCount = viewCount

	applyOwnership(view, post, viewerID)
	return view
}

func (s *aggregationServiceImpl) DecorateMany(ctx context.Context, posts []*model.Post, viewerID primitive.ObjectID) []*dto.PostView {
	res := make([]*dto.PostView, 0, len(posts))
	if len(posts) == 0 {
		return res
	}

	postIDs := make([]primitive.ObjectID, 0, len(posts))
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	categoryIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.AuthorID)
		if p.CategoryID != nil {
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
	}

	var (
		authors       = map[primitive.ObjectID]*model.User{}
		categories    = map[primitive.ObjectID]*model.Category{}
		likesByPost   = map[primitive.ObjectID][]*model.Like{}
		commentCounts = map[primitive.ObjectID]int64{}
		viewCounts    = map[primitive.ObjectID]int64{}
	)
	var g errgroup.Group

	g.Go(func() error {
		users, err := s.userRepo.GetUsersByIDs(ctx, uniqueIDs(authorIDs))
		if err != nil {
			log.WarnContext(ctx, "load post authors failed", "err", err)
			return nil
		}
		for _, u := range users {
			authors[u.ID] = u
		}
		return nil
	})
	g.Go(func() error {
		if len(categoryIDs) == 0 {
			return nil
		}
		list, err := s.categoryRepo.GetCategoriesByIDs(ctx, uniqueIDs(categoryIDs))
		if err != nil {
			log.WarnContext(ctx, "load post categories failed", "err", err)
			return nil
		}
		for _, c := range list {
			categories[c.ID] = c
		}
		return nil
	})
	g.Go(func() error {
		counts, err := s.commentRepo.CountByPostIDs(ctx, postIDs)
		if err != nil {
			log.WarnContext(ctx, "count comments failed, treated as zero", "err", err)
			return nil
		}
		commentCounts = counts
		return nil
	})
	g.Go(func() error {
		likes, err := s.likeRepo.ListByPostIDs(ctx, postIDs)
		if err != nil {
			log.WarnContext(ctx, "load likes failed, treated as empty", "err", err)
			return nil
		}
		for _, l := range likes {
			likesByPost[l.PostID] = append(likesByPost[l.PostID], l)
		}
		return nil
	})
	g.Go(func() error {
		counts, err := s.viewRepo.CountByPostIDs(ctx, postIDs)
		if err != nil {
			log.WarnContext(ctx, "count views failed, treated as zero", "err", err)
			return nil
		}
		viewCounts = counts
		return nil
	})
	_ = g.Wait()

	for _, p := range posts {
		view := s.baseView(ctx, p)
		if author, ok := authors[p.AuthorID]; ok {
			view.Author = toUserBrief(author)
		}
		if p.CategoryID != nil {
			if c, ok := categories[*p.CategoryID]; ok {
				view.Category = &dto.CategoryDTO{ID: c.ID, Name: c.Name}
			}
		}
		// 列表只返回评论数
		view.Comments = []*dto.CommentView{}
		view.CommentCount = commentCounts[p.ID]
		applyLikes(view, likesByPost[p.ID], viewerID)
		view.ViewCount = viewCounts[p.ID]
		applyOwnership(view, p, viewerID)
		res = append(res, view)
	}
	return res
}

// baseView 复制持久化字段，不修改原记录
func (s *aggregationServiceImpl) baseView(ctx context.Context, post *model.Post) *dto.PostView {
	view := &dto.PostView{}
	_ = copier.Copy(view, post)
	if post.PublishedDate != nil {
		t := *post.PublishedDate
		view.PublishedDate = &t
	}
	view.Image = util.ResolveImageURL(post.Image, s.baseURL(ctx), s.image.DefaultImage)
	view.Comments = []*dto.CommentView{}
	view.Likes = []string{}
	return view
}

func (s *aggregationServiceImpl) baseURL(ctx context.Context) string {
	if s.image.BaseURL != "" {
		return s.image.BaseURL
	}
	if base, ok := ctx.Value(consts.BaseURL).(string); ok {
		return base
	}
	return ""
}

func (s *aggregationServiceImpl) commentViews(ctx context.Context, comments []*model.Comment) []*dto.CommentView {
	res := make([]*dto.CommentView, 0, len(comments))
	if len(comments) == 0 {
		return res
	}

	userIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users := map[primitive.ObjectID]*model.User{}
	if list, err := s.userRepo.GetUsersByIDs(ctx, uniqueIDs(userIDs)); err == nil {
		for _, u := range list {
			users[u.ID] = u
		}
	} else {
		log.WarnContext(ctx, "load commenters failed", "err", err)
	}

	for _, c := range comments {
		item := &dto.CommentView{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt}
		if u, ok := users[c.UserID]; ok {
			item.User = toUserBrief(u)
		}
		res = append(res, item)
	}
	return res
}

func applyLikes(view *dto.PostView, likes []*model.Like, viewerID primitive.ObjectID) {
	view.Likes = make([]string, 0, len(likes))
	hasLiked := false
	for _, l := range likes {
		view.Likes = append(view.Likes, l.UserID.Hex())
		if l.UserID == viewerID {
			hasLiked = true
		}
	}
	view.LikeCount = int64(len(likes))
	if !viewerID.IsZero() {
		view.HasLiked = &hasLiked
	}
}

func applyOwnership(view *dto.PostView, post *model.Post, viewerID primitive.ObjectID) {
	if viewerID.IsZero() {
		return
	}
	isOwner := post.AuthorID == viewerID
	view.IsOwner = &isOwner
}

func toUserBrief(u *model.User) *dto.UserBrief {
	return &dto.UserBrief{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	res := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
