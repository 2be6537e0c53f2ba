package services

import (
	"context"
	"testing"

	"duet-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsFor(userID string, coupleID string) *Claims {
	c := &Claims{UserID: userID}
	if coupleID != "" {
		c.CoupleID = &coupleID
	}
	return c
}

func TestPostCreateRequiresCouple(t *testing.T) {
	svc := NewPostService(newFakePostStore())

	_, err := svc.Create(context.Background(), claimsFor("u1", ""), CreatePostRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPostCreateDefaults(t *testing.T) {
	svc := NewPostService(newFakePostStore())

	post, err := svc.Create(context.Background(), claimsFor("u1", "c1"), CreatePostRequest{Content: "first entry"})
	require.NoError(t, err)
	assert.Equal(t, models.MoodHappy, post.Mood)
	assert.NotNil(t, post.Images)
	assert.Empty(t, post.Images)
	assert.False(t, post.Date.IsZero())
}

func TestPostCreateValidation(t *testing.T) {
	svc := NewPostService(newFakePostStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, claimsFor("u1", "c1"), CreatePostRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, claimsFor("u1", "c1"), CreatePostRequest{Content: "x", Mood: "grumpy"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostListCoupleScoped(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, claimsFor("u1", "c1"), CreatePostRequest{Content: "ours"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, claimsFor("u9", "c2"), CreatePostRequest{Content: "theirs"})
	require.NoError(t, err)

	// Both partners of c1 see the same feed; c2's post never leaks in.
	for _, userID := range []string{"u1", "u2"} {
		posts, err := svc.List(ctx, claimsFor(userID, "c1"))
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "ours", posts[0].Content)
	}
}

func TestPostListRoomlessFallsBackToOwn(t *testing.T) {
	store := newFakePostStore()
	svc := NewPostService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, claimsFor("author", "c1"), CreatePostRequest{Content: "mine"})
	require.NoError(t, err)

	posts, err := svc.List(ctx, claimsFor("author", ""))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	posts, err = svc.List(ctx, claimsFor("someone-else", ""))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostUpdate(t *testing.T) {
	svc := NewPostService(newFakePostStore())
	ctx := context.Background()

	post, err := svc.Create(ctx, claimsFor("u1", "c1"), CreatePostRequest{Content: "draft"})
	require.NoError(t, err)

	content := "final"
	mood := models.MoodExcited
	updated, err := svc.Update(ctx, claimsFor("u2", "c1"), post.ID, UpdatePostRequest{
		Content: &content,
		Mood:    &mood,
	})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, models.MoodExcited, updated.Mood)
}

func TestPostCrossCoupleHiddenAsNotFound(t *testing.T) {
	svc := NewPostService(newFakePostStore())
	ctx := context.Background()

	post, err := svc.Create(ctx, claimsFor("u1", "c1"), CreatePostRequest{Content: "private"})
	require.NoError(t, err)

	content := "defaced"
	_, err = svc.Update(ctx, claimsFor("intruder", "c2"), post.ID, UpdatePostRequest{Content: &content})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, claimsFor("intruder", "c2"), post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Roomless stranger gets the same answer.
	err = svc.Delete(ctx, claimsFor("stranger", ""), post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostDelete(t *testing.T) {
	svc := NewPostService(newFakePostStore())
	ctx := context.Background()

	post, err := svc.Create(ctx, claimsFor("u1", "c1"), CreatePostRequest{Content: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, claimsFor("u1", "c1"), post.ID))

	posts, err := svc.List(ctx, claimsFor("u1", "c1"))
	require.NoError(t, err)
	assert.Empty(t, posts)

	err = svc.Delete(ctx, claimsFor("u1", "c1"), post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
