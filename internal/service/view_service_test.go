package service

import (
	"Blogstone/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUserViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author, viewer := env.user(t, "author"), env.user(t, "viewer")
	kept := env.post(t, author.ID, func(p *model.Post) { p.Title = "kept" })
	gone := env.post(t, author.ID)

	require.NoError(t, env.aggregation.RecordViewIfAbsent(ctx, viewer.ID, kept.ID))
	require.NoError(t, env.aggregation.RecordViewIfAbsent(ctx, viewer.ID, gone.ID))
	require.NoError(t, env.posts.DeletePost(ctx, actor(author.ID), gone.ID))

	items, err := env.views.ListUserViews(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var withPost, orphaned int
	for _, item := range items {
		if item.Post == nil {
			orphaned++
			continue
		}
		withPost++
		assert.Equal(t, "kept", item.Post.Title)
	}
	assert.Equal(t, 1, withPost)
	assert.Equal(t, 1, orphaned)

	items, err = env.views.ListUserViews(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
