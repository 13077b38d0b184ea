package service

import (
	"Blogstone/internal/api/config"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/security"
	"Blogstone/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testBaseURL = "http://api.test"

type testEnv struct {
	store    *testutil.Store
	blobs    *testutil.BlobStore
	producer *testutil.Producer
	redis    *miniredis.Miniredis

	aggregation AggregationService
	posts       PostService
	likes       LikeService
	comments    CommentService
	categories  CategoryService
	users       UserService
	views       ViewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	security.Init(config.JWTConfig{Secret: "test-access", RefreshSecret: "test-refresh", Expire: 60, RefreshExpire: 120})

	env := &testEnv{
		store:    testutil.NewStore(),
		blobs:    testutil.NewBlobStore(),
		producer: &testutil.Producer{},
		redis:    testutil.SetupRedis(t),
	}
	s := env.store
	env.aggregation = NewAggregationService(s.Users, s.Categories, s.Views, s.Likes, s.Comments, env.producer,
		ImageOptions{BaseURL: testBaseURL, DefaultImage: "public/images/default.png"})
	env.posts = NewPostService(s.Posts, s.Categories, env.aggregation, env.blobs, 800)
	env.likes = NewLikeService(s.Likes, s.Posts, env.producer)
	env.comments = NewCommentService(s.Comments, s.Posts, env.producer)
	env.categories = NewCategoryService(s.Categories)
	env.users = NewUserService(s.Users)
	env.views = NewViewService(s.Views, s.Posts)
	return env
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		FirstName: username,
		LastName:  "Tester",
		Email:     username + "@example.com",
		Username:  username,
		Role:      model.RoleUser,
	}
	require.NoError(t, e.store.Users.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) post(t *testing.T, author primitive.ObjectID, mutate ...func(*model.Post)) *model.Post {
	t.Helper()
	now := time.Now()
	p := &model.Post{
		Title:         "A post",
		Content:       "content",
		Slug:          "a-post-" + primitive.NewObjectID().Hex()[16:],
		Status:        model.PostStatusPublished,
		PublishedDate: &now,
		AuthorID:      author,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, e.store.Posts.CreatePost(context.Background(), p))
	return p
}

func actor(id primitive.ObjectID) Actor {
	return Actor{ID: id, Roles: []string{model.RoleUser}}
}
