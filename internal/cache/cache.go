package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbzala12/Yt2026Ab/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Cache provides read-path caching for user records and the published
// catalog using Redis. Mutating operations invalidate the affected
// keys; a cache miss returns nil, not an error.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// User cache operations

// SetUser caches a user record
func (c *Cache) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	key := fmt.Sprintf("user:%s", user.ID)
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// GetUser retrieves a user record from cache
func (c *Cache) GetUser(ctx context.Context, userID string) (*models.User, error) {
	key := fmt.Sprintf("user:%s", userID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// DeleteUser removes a user record from cache
func (c *Cache) DeleteUser(ctx context.Context, userID string) error {
	key := fmt.Sprintf("user:%s", userID)
	return c.client.Del(ctx, key).Err()
}

// Catalog cache operations

const catalogKey = "catalog:videos"

// SetCatalog caches the published video list
func (c *Cache) SetCatalog(ctx context.Context, videos []models.ApprovedVideo) error {
	data, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	return c.client.Set(ctx, catalogKey, data, c.ttl).Err()
}

// GetCatalog retrieves the published video list from cache
func (c *Cache) GetCatalog(ctx context.Context) ([]models.ApprovedVideo, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get catalog from cache: %w", err)
	}

	var videos []models.ApprovedVideo
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	return videos, nil
}

// InvalidateCatalog removes the cached catalog
func (c *Cache) InvalidateCatalog(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
