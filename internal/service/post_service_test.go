package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/testutil"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }

func TestPostLifecycle_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b := env.user(t, "alice"), env.user(t, "bob")

	created, err := env.posts.CreatePost(ctx, actor(a.ID), &dto.PostCreateDTO{Title: "Hello World", Content: "body"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPublished, created.Status)
	assert.NotNil(t, created.PublishedDate)
	assert.True(t, strings.HasPrefix(created.Slug, "hello-world-"))

	detail, err := env.posts.GetPostDetail(ctx, created.ID, actor(b.ID))
	require.NoError(t, err)
	require.NotNil(t, detail.HasLiked)
	assert.False(t, *detail.HasLiked)
	assert.False(t, *detail.IsOwner)
	assert.Equal(t, int64(1), detail.ViewCount)

	res, err := env.likes.ToggleLike(ctx, actor(b.ID), created.Slug)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	detail, err = env.posts.GetPostDetail(ctx, created.ID, actor(b.ID))
	require.NoError(t, err)
	assert.True(t, *detail.HasLiked)
	assert.Equal(t, int64(1), detail.LikeCount)
	assert.Equal(t, int64(1), detail.ViewCount)

	res, err = env.likes.ToggleLike(ctx, actor(b.ID), created.Slug)
	require.NoError(t, err)
	assert.False(t, res.Liked)

	detail, err = env.posts.GetPostDetail(ctx, created.ID, actor(b.ID))
	require.NoError(t, err)
	assert.Zero(t, detail.LikeCount)
	assert.False(t, *detail.HasLiked)
}

func TestGetPostDetail_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	p := env.post(t, env.user(t, "author").ID)

	detail, err := env.posts.GetPostDetail(context.Background(), p.ID, Actor{})
	require.NoError(t, err)
	assert.Nil(t, detail.HasLiked)
	assert.Nil(t, detail.IsOwner)
	assert.Zero(t, detail.ViewCount)
}

func TestGetPostDetail_UnpublishedVisibleToAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, other := env.user(t, "author"), env.user(t, "other")
	p := env.post(t, author.ID, func(p *model.Post) {
		p.Status = model.PostStatusUnpublished
		p.PublishedDate = nil
	})

	_, err := env.posts.GetPostDetail(ctx, p.ID, actor(other.ID))
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = env.posts.GetPostDetail(ctx, p.ID, Actor{})
	assert.ErrorIs(t, err, ErrPostNotFound)

	detail, err := env.posts.GetPostDetail(ctx, p.ID, actor(author.ID))
	require.NoError(t, err)
	assert.True(t, *detail.IsOwner)
}

func TestGetPostDetail_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.posts.GetPostDetail(context.Background(), primitive.NewObjectID(), Actor{})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreatePost_UnknownCategoryIsDropped(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")

	view, err := env.posts.CreatePost(context.Background(), actor(author.ID), &dto.PostCreateDTO{
		Title: "t", Content: "c", CategoryID: primitive.NewObjectID().Hex(),
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, view.Category)

	stored, err := env.store.Posts.GetPostByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID)
}

func TestCreatePost_Unpublished(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")

	view, err := env.posts.CreatePost(context.Background(), actor(author.ID), &dto.PostCreateDTO{
		Title: "draft", Content: "c", Status: model.PostStatusUnpublished,
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, view.PublishedDate)
}

func TestCreatePost_WithImageUpload(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")

	view, err := env.posts.CreatePost(context.Background(), actor(author.ID), &dto.PostCreateDTO{Title: "pic", Content: "c"},
		&ImageUpload{Filename: "a.png", Data: pngBytes(t, 1200, 10)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(view.Image, "https://blobs.test/"))
	assert.Len(t, env.blobs.Objects, 1)
}

func TestCreatePost_UploadFailureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")
	env.blobs.FailPut = errors.New("bucket unavailable")

	_, err := env.posts.CreatePost(context.Background(), actor(author.ID), &dto.PostCreateDTO{Title: "pic", Content: "c"},
		&ImageUpload{Filename: "a.png", Data: pngBytes(t, 10, 10)})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Zero(t, env.store.Posts.Count())
}

func TestCreatePost_RejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")

	_, err := env.posts.CreatePost(context.Background(), actor(author.ID), &dto.PostCreateDTO{Title: "pic", Content: "c"},
		&ImageUpload{Filename: "a.txt", Data: []byte("plain text")})
	assert.ErrorIs(t, err, ErrFileNotSupported)
	assert.Zero(t, env.store.Posts.Count())
}

func TestCreatePost_RepositoryFailure(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")
	env.store.Posts.FailWrites = testutil.ErrInjected

	_, err := env.posts.CreatePost(context.Background(), actor(author.ID), &dto.PostCreateDTO{Title: "t", Content: "c"}, nil)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	status, _ := Classify(err)
	assert.Equal(t, InternalServerError, status)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, other := env.user(t, "author"), env.user(t, "other")
	p := env.post(t, author.ID, func(p *model.Post) {
		p.Status = model.PostStatusUnpublished
		p.PublishedDate = nil
	})

	_, err := env.posts.UpdatePost(ctx, actor(other.ID), p.ID, &dto.PostUpdateDTO{Title: strPtr("stolen")}, nil)
	assert.ErrorIs(t, err, UnauthorizedError)

	view, err := env.posts.UpdatePost(ctx, actor(author.ID), p.ID, &dto.PostUpdateDTO{
		Title:  strPtr("Renamed"),
		Status: strPtr(model.PostStatusPublished),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Title)
	assert.Equal(t, p.Slug, view.Slug)
	require.NotNil(t, view.PublishedDate)
	publishedAt := *view.PublishedDate

	// 取消发布不清空发布时间
	view, err = env.posts.UpdatePost(ctx, actor(author.ID), p.ID, &dto.PostUpdateDTO{Status: strPtr(model.PostStatusUnpublished)}, nil)
	require.NoError(t, err)
	require.NotNil(t, view.PublishedDate)
	assert.Equal(t, publishedAt, *view.PublishedDate)
}

func TestUpdatePost_AdminMayEdit(t *testing.T) {
	env := newTestEnv(t)
	author, admin := env.user(t, "author"), env.user(t, "admin")
	p := env.post(t, author.ID)

	view, err := env.posts.UpdatePost(context.Background(), Actor{ID: admin.ID, Roles: []string{model.RoleAdmin}}, p.ID,
		&dto.PostUpdateDTO{Content: strPtr("moderated")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "moderated", view.Content)
	assert.False(t, *view.IsOwner)
}

func TestUpdatePost_ReplacedImageIsQueued(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	p := env.post(t, author.ID, func(p *model.Post) { p.Image = "https://blobs.test/blogstone/posts/old.png" })

	_, err := env.posts.UpdatePost(ctx, actor(author.ID), p.ID, &dto.PostUpdateDTO{}, &ImageUpload{Filename: "n.png", Data: pngBytes(t, 4, 4)})
	require.NoError(t, err)

	members, err := env.redis.Members(consts.StaleImageKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts/old.png"}, members)
	assert.Empty(t, env.blobs.Deleted)
}

func TestDeletePost_KeepsEngagementRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, viewer := env.user(t, "author"), env.user(t, "viewer")
	p := env.post(t, author.ID, func(p *model.Post) { p.Image = "https://cdn.example.com/external.png" })

	require.NoError(t, env.aggregation.RecordViewIfAbsent(ctx, viewer.ID, p.ID))
	_, err := env.likes.ToggleLike(ctx, actor(viewer.ID), p.Slug)
	require.NoError(t, err)
	_, err = env.comments.CreateComment(ctx, actor(viewer.ID), &dto.CommentCreateDTO{PostID: p.ID.Hex(), Content: "nice"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.posts.DeletePost(ctx, actor(viewer.ID), p.ID), UnauthorizedError)
	require.NoError(t, env.posts.DeletePost(ctx, actor(author.ID), p.ID))

	_, err = env.posts.GetPostDetail(ctx, p.ID, actor(viewer.ID))
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Equal(t, 1, env.store.Views.CountPair(viewer.ID, p.ID))
	assert.Equal(t, 1, env.store.Likes.CountPair(viewer.ID, p.ID))
	assert.Equal(t, 1, env.store.Comments.Len())

	// 外部图片不进入清理队列
	assert.False(t, env.redis.Exists(consts.StaleImageKey))
	assert.ErrorIs(t, env.posts.DeletePost(ctx, actor(author.ID), p.ID), ErrPostNotFound)
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, other := env.user(t, "author"), env.user(t, "other")
	env.post(t, author.ID, func(p *model.Post) { p.Title = "Go generics" })
	env.post(t, author.ID, func(p *model.Post) { p.Title = "Rust lifetimes" })
	env.post(t, author.ID, func(p *model.Post) {
		p.Title = "Go draft"
		p.Status = model.PostStatusUnpublished
		p.PublishedDate = nil
	})

	views, details, err := env.posts.ListPosts(ctx, &dto.PostQuery{}, Actor{})
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, int64(2), details.TotalRecords)

	views, _, err = env.posts.ListPosts(ctx, &dto.PostQuery{}, actor(author.ID))
	require.NoError(t, err)
	assert.Len(t, views, 3)

	views, _, err = env.posts.ListPosts(ctx, &dto.PostQuery{Search: "go"}, actor(other.ID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Go generics", views[0].Title)
	assert.Empty(t, views[0].Comments)

	views, details, err = env.posts.ListPosts(ctx, &dto.PostQuery{Page: "2", Limit: "1"}, Actor{})
	require.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, int64(2), details.TotalPages)

	_, _, err = env.posts.ListPosts(ctx, &dto.PostQuery{Author: "not-an-id"}, Actor{})
	assert.ErrorIs(t, err, ErrParamInvalid)

	env.post(t, other.ID, func(p *model.Post) {
		p.Status = model.PostStatusUnpublished
		p.PublishedDate = nil
	})
	views, _, err = env.posts.ListPosts(ctx, &dto.PostQuery{Author: author.ID.Hex(), Status: model.PostStatusUnpublished}, actor(other.ID))
	require.NoError(t, err)
	assert.Empty(t, views)

	views, _, err = env.posts.ListPosts(ctx, &dto.PostQuery{Author: author.ID.Hex(), Status: model.PostStatusUnpublished}, actor(author.ID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Go draft", views[0].Title)
}
