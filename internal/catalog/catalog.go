// Package catalog owns the published video catalog, the public output
// of the submission workflow.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kbzala12/Yt2026Ab/internal/logging"
	"github.com/kbzala12/Yt2026Ab/internal/metrics"
	"github.com/kbzala12/Yt2026Ab/internal/store"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
)

var (
	// ErrVideoNotFound is returned when no published video matches the id.
	ErrVideoNotFound = errors.New("video not found")

	// ErrDuplicateVideo is returned when a video with the same id is
	// already published.
	ErrDuplicateVideo = errors.New("video already published")
)

// Catalog provides operations on the published video collection.
// Entries are never mutated: they are added once and removed by
// explicit administrative delete.
type Catalog struct {
	videos store.Collection[models.ApprovedVideo]
	log    *logging.Logger

	mu sync.Mutex
}

// New creates a catalog over the given collection.
func New(videos store.Collection[models.ApprovedVideo], log *logging.Logger) *Catalog {
	return &Catalog{videos: videos, log: log}
}

// List returns all published videos in publication order.
func (c *Catalog) List(ctx context.Context) ([]models.ApprovedVideo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	videos, err := c.videos.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.ApprovedVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })

	return out, nil
}

// Add publishes a video. Ids are unique: publishing an id that already
// exists fails with ErrDuplicateVideo and changes nothing.
func (c *Catalog) Add(ctx context.Context, video models.ApprovedVideo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	videos, err := c.videos.Load(ctx)
	if err != nil {
		return err
	}

	if _, exists := videos[video.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVideo, video.ID)
	}

	videos[video.ID] = video
	if err := c.videos.Replace(ctx, videos); err != nil {
		return fmt.Errorf("publish video %s: %w", video.ID, err)
	}

	metrics.SetCatalogSize(len(videos))
	c.log.WithVideoID(video.ID).Infof("published video %q by %s", video.Title, video.SubmittedBy)

	return nil
}

// Remove deletes a published video by id.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	videos, err := c.videos.Load(ctx)
	if err != nil {
		return err
	}

	if _, exists := videos[id]; !exists {
		return ErrVideoNotFound
	}

	delete(videos, id)
	if err := c.videos.Replace(ctx, videos); err != nil {
		return fmt.Errorf("remove video %s: %w", id, err)
	}

	metrics.SetCatalogSize(len(videos))
	c.log.WithVideoID(id).Info("removed published video")

	return nil
}
