package service

import (
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/kafka"
	"Blogstone/internal/testutil"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecordViewIfAbsent_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, viewer := env.user(t, "author"), env.user(t, "viewer")
	p := env.post(t, author.ID)

	require.NoError(t, env.aggregation.RecordViewIfAbsent(ctx, viewer.ID, p.ID))
	require.NoError(t, env.aggregation.RecordViewIfAbsent(ctx, viewer.ID, p.ID))

	assert.Equal(t, 1, env.store.Views.CountPair(viewer.ID, p.ID))
	assert.Equal(t, []string{kafka.EventView}, env.producer.Types())
}

func TestRecordViewIfAbsent_AnonymousIsNoop(t *testing.T) {
	env := newTestEnv(t)
	p := env.post(t, env.user(t, "author").ID)

	require.NoError(t, env.aggregation.RecordViewIfAbsent(context.Background(), primitive.NilObjectID, p.ID))
	n, err := env.store.Views.CountByPostID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordViewIfAbsent_ConcurrentRequests(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.user(t, "viewer")
	p := env.post(t, env.user(t, "author").ID)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, env.aggregation.RecordViewIfAbsent(context.Background(), viewer.ID, p.ID))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, env.store.Views.CountPair(viewer.ID, p.ID))
}

func TestDecorate_AnonymousFlagsAreNull(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")
	p := env.post(t, author.ID)

	view := env.aggregation.Decorate(context.Background(), p, primitive.NilObjectID)
	assert.Nil(t, view.HasLiked)
	assert.Nil(t, view.IsOwner)
	require.NotNil(t, view.Author)
	assert.Equal(t, "author", view.Author.Username)
}

func TestDecorate_IsOwner(t *testing.T) {
	env := newTestEnv(t)
	author, other := env.user(t, "author"), env.user(t, "other")
	p := env.post(t, author.ID)

	owned := env.aggregation.Decorate(context.Background(), p, author.ID)
	require.NotNil(t, owned.IsOwner)
	assert.True(t, *owned.IsOwner)

	notOwned := env.aggregation.Decorate(context.Background(), p, other.ID)
	require.NotNil(t, notOwned.IsOwner)
	assert.False(t, *notOwned.IsOwner)
	require.NotNil(t, notOwned.HasLiked)
	assert.False(t, *notOwned.HasLiked)
}

func TestDecorate_Counts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	p := env.post(t, author.ID)

	commenters := []*model.User{env.user(t, "c1"), env.user(t, "c2"), env.user(t, "c3")}
	for i, c := range commenters {
		require.NoError(t, env.store.Comments.CreateComment(ctx, &model.Comment{
			UserID: c.ID, PostID: p.ID, Content: "comment", CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}
	likers := commenters[:2]
	for _, l := range likers {
		require.NoError(t, env.store.Likes.CreateLike(ctx, &model.Like{UserID: l.ID, PostID: p.ID}))
	}

	view := env.aggregation.Decorate(ctx, p, likers[0].ID)
	assert.Equal(t, int64(3), view.CommentCount)
	assert.Len(t, view.Comments, 3)
	assert.Equal(t, int64(2), view.LikeCount)
	assert.Len(t, view.Likes, 2)
	assert.Contains(t, view.Likes, likers[1].ID.Hex())
	require.NotNil(t, view.HasLiked)
	assert.True(t, *view.HasLiked)

	// 最新评论在前，并带精简用户信息
	assert.Equal(t, "c3", view.Comments[0].User.Username)
	assert.Equal(t, "c3@example.com", view.Comments[0].User.Email)
}

func TestDecorate_ImageNormalization(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "author")

	noImage := env.post(t, author.ID)
	view := env.aggregation.Decorate(context.Background(), noImage, primitive.NilObjectID)
	assert.True(t, strings.HasPrefix(view.Image, "http://"))
	assert.True(t, strings.HasSuffix(view.Image, "/default.png"))

	absolute := env.post(t, author.ID, func(p *model.Post) { p.Image = "https://cdn.example.com/pic.jpg" })
	view = env.aggregation.Decorate(context.Background(), absolute, primitive.NilObjectID)
	assert.Equal(t, "https://cdn.example.com/pic.jpg", view.Image)

	relative := env.post(t, author.ID, func(p *model.Post) { p.Image = "uploads/pic.jpg" })
	view = env.aggregation.Decorate(context.Background(), relative, primitive.NilObjectID)
	assert.Equal(t, testBaseURL+"/uploads/pic.jpg", view.Image)
}

func TestDecorate_DoesNotMutatePost(t *testing.T) {
	env := newTestEnv(t)
	p := env.post(t, env.user(t, "author").ID)
	before := *p

	_ = env.aggregation.Decorate(context.Background(), p, p.AuthorID)
	assert.Equal(t, before, *p)

	stored, err := env.store.Posts.GetPostByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Image)
}

func TestDecorate_EngagementFailureTreatedAsZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, viewer := env.user(t, "author"), env.user(t, "viewer")
	p := env.post(t, author.ID)
	require.NoError(t, env.store.Likes.CreateLike(ctx, &model.Like{UserID: viewer.ID, PostID: p.ID}))
	require.NoError(t, env.store.Views.CreateView(ctx, &model.View{UserID: viewer.ID, PostID: p.ID}))

	env.store.Likes.FailReads = testutil.ErrInjected
	env.store.Views.FailReads = testutil.ErrInjected
	env.store.Comments.FailReads = testutil.ErrInjected

	view := env.aggregation.Decorate(ctx, p, viewer.ID)
	assert.Zero(t, view.LikeCount)
	assert.Empty(t, view.Likes)
	assert.Zero(t, view.ViewCount)
	assert.Zero(t, view.CommentCount)
	require.NotNil(t, view.HasLiked)
	assert.False(t, *view.HasLiked)
}

func TestDecorate_MissingCategoryIsAbsent(t *testing.T) {
	env := newTestEnv(t)
	gone := primitive.NewObjectID()
	p := env.post(t, env.user(t, "author").ID, func(p *model.Post) { p.CategoryID = &gone })

	view := env.aggregation.Decorate(context.Background(), p, primitive.NilObjectID)
	assert.Nil(t, view.Category)
}

func TestDecorateMany(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, viewer := env.user(t, "author"), env.user(t, "viewer")
	category := &model.Category{Name: "go"}
	require.NoError(t, env.store.Categories.CreateCategory(ctx, category))

	p1 := env.post(t, author.ID, func(p *model.Post) { p.CategoryID = &category.ID })
	p2 := env.post(t, viewer.ID)
	require.NoError(t, env.store.Comments.CreateComment(ctx, &model.Comment{UserID: viewer.ID, PostID: p1.ID, Content: "x"}))
	require.NoError(t, env.store.Comments.CreateComment(ctx, &model.Comment{UserID: author.ID, PostID: p1.ID, Content: "y"}))
	require.NoError(t, env.store.Likes.CreateLike(ctx, &model.Like{UserID: viewer.ID, PostID: p1.ID}))
	require.NoError(t, env.store.Views.CreateView(ctx, &model.View{UserID: author.ID, PostID: p2.ID}))

	views := env.aggregation.DecorateMany(ctx, []*model.Post{p1, p2}, viewer.ID)
	require.Len(t, views, 2)

	assert.Equal(t, int64(2), views[0].CommentCount)
	assert.Empty(t, views[0].Comments)
	assert.Equal(t, int64(1), views[0].LikeCount)
	assert.True(t, *views[0].HasLiked)
	assert.False(t, *views[0].IsOwner)
	require.NotNil(t, views[0].Category)
	assert.Equal(t, "go", views[0].Category.Name)

	assert.Equal(t, int64(1), views[1].ViewCount)
	assert.True(t, *views[1].IsOwner)
	assert.False(t, *views[1].HasLiked)

	// 列表不记录浏览
	assert.Equal(t, 0, env.store.Views.CountPair(viewer.ID, p1.ID))
	assert.Empty(t, env.producer.Types())
}

func TestDecorateMany_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	p := env.post(t, env.user(t, "author").ID)

	views := env.aggregation.DecorateMany(context.Background(), []*model.Post{p}, primitive.NilObjectID)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].HasLiked)
	assert.Nil(t, views[0].IsOwner)
	assert.Empty(t, env.aggregation.DecorateMany(context.Background(), nil, primitive.NilObjectID))
}
