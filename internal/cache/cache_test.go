package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0, 5*time.Minute)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCache_UserOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	user := &models.User{
		ID:            "user-1",
		Username:      "alice",
		Role:          models.UserRoleUser,
		Coins:         220,
		DailyCoins:    30,
		LastClaimDate: "2026-08-29",
	}

	if err := cache.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	retrieved, err := cache.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}

	if retrieved == nil {
		t.Fatal("Retrieved user should not be nil")
	}

	if retrieved.Username != user.Username {
		t.Errorf("Expected username %s, got %s", user.Username, retrieved.Username)
	}

	if retrieved.Coins != user.Coins {
		t.Errorf("Expected coins %d, got %d", user.Coins, retrieved.Coins)
	}

	// Cache miss returns nil without error
	missing, err := cache.GetUser(ctx, "non-existent")
	if err != nil {
		t.Fatalf("GetUser for non-existent should not error: %v", err)
	}

	if missing != nil {
		t.Error("Non-existent user should return nil")
	}

	if err := cache.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	deleted, err := cache.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser after delete failed: %v", err)
	}

	if deleted != nil {
		t.Error("Deleted user should return nil")
	}
}

func TestCache_CatalogOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	videos := []models.ApprovedVideo{
		{
			ID:          "dQw4w9WgXcQ",
			Title:       "Never Gonna Give You Up",
			Channel:     "Rick Astley",
			SubmittedBy: "alice",
			AddedAt:     time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          "9bZkp7q19f0",
			Title:       "Gangnam Style",
			Channel:     "officialpsy",
			SubmittedBy: "bob",
			AddedAt:     time.Date(2026, 8, 29, 13, 0, 0, 0, time.UTC),
		},
	}

	if err := cache.SetCatalog(ctx, videos); err != nil {
		t.Fatalf("SetCatalog failed: %v", err)
	}

	retrieved, err := cache.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog failed: %v", err)
	}

	if len(retrieved) != len(videos) {
		t.Fatalf("Expected %d videos, got %d", len(videos), len(retrieved))
	}

	if retrieved[0].ID != videos[0].ID {
		t.Errorf("Expected first id %s, got %s", videos[0].ID, retrieved[0].ID)
	}

	if err := cache.InvalidateCatalog(ctx); err != nil {
		t.Fatalf("InvalidateCatalog failed: %v", err)
	}

	invalidated, err := cache.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog after invalidate failed: %v", err)
	}

	if invalidated != nil {
		t.Error("Invalidated catalog should return nil")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	user := &models.User{ID: "user-1", Username: "alice"}

	if err := cache.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	expired, err := cache.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser after expiry failed: %v", err)
	}

	if expired != nil {
		t.Error("Expired user entry should return nil")
	}
}
