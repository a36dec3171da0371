package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bench-match-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// ShortlistCache 在 Redis 中缓存每个需求最近一次的 shortlist。
type ShortlistCache interface {
	// Get 未命中时返回 (nil, nil)。
	Get(ctx context.Context, requirementID string) (*model.ShortlistView, error)
	Set(ctx context.Context, view *model.ShortlistView) error
	Delete(ctx context.Context, requirementID string) error
}

type shortlistCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewShortlistCache 创建一个新的 ShortlistCache 实例。
func NewShortlistCache(redisClient *redis.Client, ttl time.Duration) ShortlistCache {
	return &shortlistCache{redisClient: redisClient, ttl: ttl}
}

func shortlistKey(requirementID string) string {
	return "shortlist:latest:" + requirementID
}

func (c *shortlistCache) Get(ctx context.Context, requirementID string) (*model.ShortlistView, error) {
	data, err := c.redisClient.Get(ctx, shortlistKey(requirementID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var view model.ShortlistView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *shortlistCache) Set(ctx context.Context, view *model.ShortlistView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.redisClient.Set(ctx, shortlistKey(view.RequirementID), data, c.ttl).Err()
}

func (c *shortlistCache) Delete(ctx context.Context, requirementID string) error {
	return c.redisClient.Del(ctx, shortlistKey(requirementID)).Err()
}
