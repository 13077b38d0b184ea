package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/kafka"
	"Blogstone/internal/pkg/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommentCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer, other, admin := env.user(t, "writer"), env.user(t, "other"), env.user(t, "admin")
	p := env.post(t, env.user(t, "author").ID)

	c, err := env.comments.CreateComment(ctx, actor(writer.ID), &dto.CommentCreateDTO{PostID: p.ID.Hex(), Content: "  first  "})
	require.NoError(t, err)
	assert.Equal(t, "first", c.Content)
	assert.Equal(t, []string{kafka.EventComment}, env.producer.Types())

	got, err := env.comments.GetComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, writer.ID, got.UserID)

	_, err = env.comments.UpdateComment(ctx, actor(other.ID), c.ID, &dto.CommentUpdateDTO{Content: "hijack"})
	assert.ErrorIs(t, err, UnauthorizedError)

	// 管理员可以删除但不能修改他人评论
	adminActor := Actor{ID: admin.ID, Roles: []string{model.RoleAdmin}}
	_, err = env.comments.UpdateComment(ctx, adminActor, c.ID, &dto.CommentUpdateDTO{Content: "moderated"})
	assert.ErrorIs(t, err, UnauthorizedError)

	updated, err := env.comments.UpdateComment(ctx, actor(writer.ID), c.ID, &dto.CommentUpdateDTO{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.ErrorIs(t, env.comments.DeleteComment(ctx, actor(other.ID), c.ID), UnauthorizedError)
	require.NoError(t, env.comments.DeleteComment(ctx, adminActor, c.ID))
	_, err = env.comments.GetComment(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCreateComment_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer := env.user(t, "writer")
	p := env.post(t, env.user(t, "author").ID)

	_, err := env.comments.CreateComment(ctx, actor(writer.ID), &dto.CommentCreateDTO{PostID: primitive.NewObjectID().Hex(), Content: "x"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.comments.CreateComment(ctx, actor(writer.ID), &dto.CommentCreateDTO{PostID: "bad", Content: "x"})
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = env.comments.CreateComment(ctx, actor(writer.ID), &dto.CommentCreateDTO{PostID: p.ID.Hex(), Content: "   "})
	var ve *util.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = env.comments.CreateComment(ctx, Actor{}, &dto.CommentCreateDTO{PostID: p.ID.Hex(), Content: "x"})
	assert.ErrorIs(t, err, UnauthorizedError)
	assert.Zero(t, env.store.Comments.Len())
}

func TestListComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer := env.user(t, "writer")
	p1 := env.post(t, env.user(t, "author").ID)
	p2 := env.post(t, writer.ID)
	for _, p := range []*model.Post{p1, p1, p2} {
		_, err := env.comments.CreateComment(ctx, actor(writer.ID), &dto.CommentCreateDTO{PostID: p.ID.Hex(), Content: "c"})
		require.NoError(t, err)
	}

	all, details, err := env.comments.ListComments(ctx, &dto.CommentQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), details.TotalRecords)

	filtered, _, err := env.comments.ListComments(ctx, &dto.CommentQuery{PostID: p1.ID.Hex()})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	byPost, err := env.comments.GetPostComments(ctx, p2.ID, Actor{})
	require.NoError(t, err)
	assert.Equal(t, p2.ID, byPost.Post.ID)
	assert.Len(t, byPost.Comments, 1)
}

func TestGetPostComments_DraftHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	draft := env.post(t, author.ID, func(p *model.Post) {
		p.Title = "secret draft"
		p.Status = model.PostStatusUnpublished
		p.PublishedDate = nil
	})

	_, err := env.comments.GetPostComments(ctx, draft.ID, Actor{})
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = env.comments.GetPostComments(ctx, draft.ID, actor(env.user(t, "other").ID))
	assert.ErrorIs(t, err, ErrPostNotFound)

	out, err := env.comments.GetPostComments(ctx, draft.ID, actor(author.ID))
	require.NoError(t, err)
	assert.Equal(t, draft.ID, out.Post.ID)
}
