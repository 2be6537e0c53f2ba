package services

import (
	"context"
	"testing"

	"duet-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCreate(t *testing.T) {
	svc := NewItemService(newFakeItemStore())
	ctx := context.Background()

	item, err := svc.Create(ctx, claimsFor("u1", "c1"), CreateItemRequest{
		Title: "Before Sunrise",
		Type:  models.ItemMovie,
		Link:  "https://example.com/movie",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ItemPending, item.Status)
	assert.Equal(t, "u1", item.AddedByID)
	assert.Equal(t, "c1", item.CoupleID)
}

func TestItemCreateValidation(t *testing.T) {
	svc := NewItemService(newFakeItemStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, claimsFor("u1", "c1"), CreateItemRequest{Type: models.ItemMovie})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, claimsFor("u1", "c1"), CreateItemRequest{Title: "x", Type: "podcast"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, claimsFor("u1", ""), CreateItemRequest{Title: "x", Type: models.ItemSong})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestItemListTypeFilter(t *testing.T) {
	svc := NewItemService(newFakeItemStore())
	ctx := context.Background()
	claims := claimsFor("u1", "c1")

	_, err := svc.Create(ctx, claims, CreateItemRequest{Title: "Movie A", Type: models.ItemMovie})
	require.NoError(t, err)
	_, err = svc.Create(ctx, claims, CreateItemRequest{Title: "Song B", Type: models.ItemSong})
	require.NoError(t, err)

	all, err := svc.List(ctx, claims, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	movies, err := svc.List(ctx, claims, models.ItemMovie)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Movie A", movies[0].Title)

	_, err = svc.List(ctx, claims, "podcast")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestItemUpdateStatus(t *testing.T) {
	svc := NewItemService(newFakeItemStore())
	ctx := context.Background()
	claims := claimsFor("u1", "c1")

	item, err := svc.Create(ctx, claims, CreateItemRequest{Title: "Movie A", Type: models.ItemMovie})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, claims, item.ID, models.ItemCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.ItemCompleted, updated.Status)

	_, err = svc.UpdateStatus(ctx, claims, item.ID, "abandoned")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, claimsFor("intruder", "c2"), item.ID, models.ItemPending)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemDeleteScoped(t *testing.T) {
	svc := NewItemService(newFakeItemStore())
	ctx := context.Background()
	claims := claimsFor("u1", "c1")

	item, err := svc.Create(ctx, claims, CreateItemRequest{Title: "Movie A", Type: models.ItemMovie})
	require.NoError(t, err)

	err = svc.Delete(ctx, claimsFor("intruder", "c2"), item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, claims, item.ID))
	err = svc.Delete(ctx, claims, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
