package service

import (
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/kafka"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLike_Parity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := env.user(t, "viewer")
	p := env.post(t, env.user(t, "author").ID)

	for i := 1; i <= 5; i++ {
		res, err := env.likes.ToggleLike(ctx, actor(viewer.ID), p.Slug)
		require.NoError(t, err)
		odd := i%2 == 1
		assert.Equal(t, odd, res.Liked)
		expected := 0
		if odd {
			expected = 1
			require.NotNil(t, res.Like)
		}
		assert.Equal(t, expected, env.store.Likes.CountPair(viewer.ID, p.ID))
	}
	assert.Equal(t, []string{kafka.EventLike, kafka.EventUnlike, kafka.EventLike, kafka.EventUnlike, kafka.EventLike}, env.producer.Types())
	assert.False(t, env.redis.Exists(consts.LikeLock+viewer.ID.Hex()+":"+p.ID.Hex()))
}

func TestToggleLike_ConcurrentEvenCountCancelsOut(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.user(t, "viewer")
	p := env.post(t, env.user(t, "author").ID)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.likes.ToggleLike(context.Background(), actor(viewer.ID), p.Slug)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, env.store.Likes.CountPair(viewer.ID, p.ID))
}

func TestToggleLike_BusyLock(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.user(t, "viewer")
	p := env.post(t, env.user(t, "author").ID)
	require.NoError(t, env.redis.Set(consts.LikeLock+viewer.ID.Hex()+":"+p.ID.Hex(), "someone-else"))

	_, err := env.likes.ToggleLike(context.Background(), actor(viewer.ID), p.Slug)
	assert.ErrorIs(t, err, ErrActionBusy)
	status, _ := Classify(err)
	assert.Equal(t, Conflict, status)
	assert.Equal(t, 0, env.store.Likes.CountPair(viewer.ID, p.ID))
}

func TestToggleLike_Errors(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.user(t, "viewer")

	_, err := env.likes.ToggleLike(context.Background(), actor(viewer.ID), "missing-slug")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.likes.ToggleLike(context.Background(), Actor{}, "missing-slug")
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestDeleteLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer, other := env.user(t, "viewer"), env.user(t, "other")
	p := env.post(t, env.user(t, "author").ID)

	res, err := env.likes.ToggleLike(ctx, actor(viewer.ID), p.Slug)
	require.NoError(t, err)

	assert.ErrorIs(t, env.likes.DeleteLike(ctx, actor(other.ID), res.Like.ID), UnauthorizedError)
	require.NoError(t, env.likes.DeleteLike(ctx, actor(viewer.ID), res.Like.ID))
	assert.ErrorIs(t, env.likes.DeleteLike(ctx, actor(viewer.ID), res.Like.ID), ErrLikeNotFound)
}

func TestGetPostLikes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.post(t, env.user(t, "author").ID)
	for _, name := range []string{"a", "b"} {
		_, err := env.likes.ToggleLike(ctx, actor(env.user(t, name).ID), p.Slug)
		require.NoError(t, err)
	}

	out, err := env.likes.GetPostLikes(ctx, p.ID, Actor{})
	require.NoError(t, err)
	require.NotNil(t, out.Post)
	assert.Equal(t, p.ID, out.Post.ID)
	assert.Len(t, out.Likes, 2)

	out, err = env.likes.GetPostLikes(ctx, primitive.NewObjectID(), Actor{})
	require.NoError(t, err)
	assert.Nil(t, out.Post)
	assert.Empty(t, out.Likes)
}

func TestGetPostLikes_DraftHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	draft := env.post(t, author.ID, func(p *model.Post) {
		p.Title = "secret draft"
		p.Status = model.PostStatusUnpublished
		p.PublishedDate = nil
	})

	_, err := env.likes.GetPostLikes(ctx, draft.ID, Actor{})
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = env.likes.GetPostLikes(ctx, draft.ID, actor(env.user(t, "other").ID))
	assert.ErrorIs(t, err, ErrPostNotFound)

	out, err := env.likes.GetPostLikes(ctx, draft.ID, actor(author.ID))
	require.NoError(t, err)
	assert.Equal(t, "secret draft", out.Post.Title)
}
