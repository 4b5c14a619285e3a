package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/kbzala12/Yt2026Ab/internal/logging"
	"github.com/kbzala12/Yt2026Ab/internal/store"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) (*Catalog, *store.MemoryCollection[models.ApprovedVideo]) {
	t.Helper()
	log, err := logging.NewDefaultLogger()
	require.NoError(t, err)

	videos := store.NewMemoryCollection[models.ApprovedVideo]()
	return New(videos, log), videos
}

func video(id string, addedAt time.Time) models.ApprovedVideo {
	return models.ApprovedVideo{
		ID:          id,
		Title:       "Video " + id,
		Channel:     "Channel " + id,
		Thumbnail:   "https://img.youtube.com/vi/" + id + "/hqdefault.jpg",
		SubmittedBy: "alice",
		VideoURL:    "https://www.youtube.com/watch?v=" + id,
		AddedAt:     addedAt,
	}
}

func TestCatalog_AddAndList(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.Add(ctx, video("vid-b", base)))
	require.NoError(t, c.Add(ctx, video("vid-a", base.Add(time.Minute))))
	require.NoError(t, c.Add(ctx, video("vid-c", base.Add(2*time.Minute))))

	listed, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// Publication order, not id order
	assert.Equal(t, "vid-b", listed[0].ID)
	assert.Equal(t, "vid-a", listed[1].ID)
	assert.Equal(t, "vid-c", listed[2].ID)
}

func TestCatalog_AddDuplicate(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	first := video("vid-a", time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	require.NoError(t, c.Add(ctx, first))

	dup := first
	dup.Title = "Different Title"
	err := c.Add(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateVideo)

	listed, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Video vid-a", listed[0].Title)
}

func TestCatalog_Remove(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, video("vid-a", time.Now())))
	require.NoError(t, c.Remove(ctx, "vid-a"))

	listed, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Removed ids can be published again
	require.NoError(t, c.Add(ctx, video("vid-a", time.Now())))
}

func TestCatalog_RemoveMissing(t *testing.T) {
	c, _ := newTestCatalog(t)

	err := c.Remove(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestCatalog_StorageFailure(t *testing.T) {
	c, videos := newTestCatalog(t)
	ctx := context.Background()

	videos.ReplaceErr = store.ErrStorage
	err := c.Add(ctx, video("vid-a", time.Now()))
	assert.ErrorIs(t, err, store.ErrStorage)

	videos.ReplaceErr = nil
	listed, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
