package port

import (
	"context"

	"github.com/rl1809/source-deduction/internal/core/domain"
)

type CacheInvalidator interface {
	// Invalidate marks the cached entries under tag stale for the given entity IDs
	Invalidate(ctx context.Context, tag string, entityIDs []string) error
}

type EventPublisher interface {
	// Notify broadcasts a fire-and-forget event carrying the invalidation context
	Notify(ctx context.Context, event string, cacheContext domain.CacheContext) error
}
