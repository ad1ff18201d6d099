package querycache

import (
	"context"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

// Feed wraps a ChangeFeed so that every locally published event invalidates
// the cache before it leaves the process. A writer's next read therefore never
// depends on its own event making the round trip through the feed. Events
// from other processes still arrive through the subscription.
type Feed struct {
	ports.ChangeFeed
	cache *Cache
}

// NewFeed returns next wrapped with local invalidation on c.
func NewFeed(next ports.ChangeFeed, c *Cache) *Feed {
	return &Feed{ChangeFeed: next, cache: c}
}

// PublishChange invalidates first, so a failed publish still leaves this
// process consistent.
func (f *Feed) PublishChange(ctx context.Context, event domain.ChangeEvent) error {
	f.cache.Invalidate(event)
	return f.ChangeFeed.PublishChange(ctx, event)
}
