package cache

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"surveylens/internal/model"
)

type layeredCache struct {
	local  *expirable.LRU[string, []*model.Summary]
	remote SummaryCache // nil means process-local only
}

// NewLayeredSummaryCache puts a process-local LRU in front of remote.
// remote may be nil. Local entries expire after localTTL, which bounds how
// long an invalidation made by another instance goes unseen here.
// localTTL <= 0 keeps entries until evicted.
func NewLayeredSummaryCache(remote SummaryCache, size int, localTTL time.Duration) SummaryCache {
	if size <= 0 {
		size = 1024
	}
	return &layeredCache{
		local:  expirable.NewLRU[string, []*model.Summary](size, nil, localTTL),
		remote: remote,
	}
}

func (c *layeredCache) Get(ctx context.Context, surveyID string) ([]*model.Summary, error) {
	if v, ok := c.local.Get(surveyID); ok {
		return v, nil
	}
	if c.remote == nil {
		return nil, nil
	}
	v, err := c.remote.Get(ctx, surveyID)
	if err != nil || v == nil {
		return nil, err
	}
	c.local.Add(surveyID, v)
	return v, nil
}

func (c *layeredCache) Set(ctx context.Context, surveyID string, summaries []*model.Summary) error {
	if summaries == nil {
		summaries = []*model.Summary{}
	}
	c.local.Add(surveyID, summaries)
	if c.remote == nil {
		return nil
	}
	return c.remote.Set(ctx, surveyID, summaries)
}

// Invalidate always drops the local entry, even if the remote call fails
func (c *layeredCache) Invalidate(ctx context.Context, surveyID string) error {
	c.local.Remove(surveyID)
	if c.remote == nil {
		return nil
	}
	if err := c.remote.Invalidate(ctx, surveyID); err != nil {
		log.Printf("cache: invalidate survey %s: %v", surveyID, err)
		return err
	}
	return nil
}
