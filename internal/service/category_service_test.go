package service

import (
	"Blogstone/internal/pkg/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	golang, err := env.categories.CreateCategory(ctx, "  Go ")
	require.NoError(t, err)
	assert.Equal(t, "Go", golang.Name)

	_, err = env.categories.CreateCategory(ctx, "Go")
	assert.ErrorIs(t, err, ErrCategoryExist)

	_, err = env.categories.CreateCategory(ctx, " ")
	var ve *util.ValidationError
	assert.ErrorAs(t, err, &ve)

	rust, err := env.categories.CreateCategory(ctx, "Rust")
	require.NoError(t, err)
	_, err = env.categories.UpdateCategory(ctx, rust.ID, "Go")
	assert.ErrorIs(t, err, ErrCategoryExist)

	renamed, err := env.categories.UpdateCategory(ctx, rust.ID, "Zig")
	require.NoError(t, err)
	assert.Equal(t, "Zig", renamed.Name)

	list, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, env.categories.DeleteCategory(ctx, rust.ID))
	_, err = env.categories.GetCategory(ctx, rust.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, env.categories.DeleteCategory(ctx, primitive.NewObjectID()), ErrCategoryNotFound)
}
