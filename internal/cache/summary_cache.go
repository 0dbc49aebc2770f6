package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"surveylens/internal/model"
)

// SummaryCache caches the summaries of a survey as one entry
type SummaryCache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, surveyID string) ([]*model.Summary, error)
	Set(ctx context.Context, surveyID string, summaries []*model.Summary) error
	Invalidate(ctx context.Context, surveyID string) error
}

type summaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a Redis-backed summary cache
func NewSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &summaryCache{
		client: client,
		ttl:    ttl,
	}
}

func summariesKey(surveyID string) string {
	return fmt.Sprintf("survey:%s:summaries", surveyID)
}

func (c *summaryCache) Get(ctx context.Context, surveyID string) ([]*model.Summary, error) {
	data, err := c.client.Get(ctx, summariesKey(surveyID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summaries []*model.Summary
	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *summaryCache) Set(ctx context.Context, surveyID string, summaries []*model.Summary) error {
	if summaries == nil {
		summaries = []*model.Summary{}
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summariesKey(surveyID), data, c.ttl).Err()
}

func (c *summaryCache) Invalidate(ctx context.Context, surveyID string) error {
	return c.client.Del(ctx, summariesKey(surveyID)).Err()
}
