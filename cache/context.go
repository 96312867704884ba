package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const cacheContextKey contextKey = "cratecompat.cache.context"

// SourceCacheContext carries cache control settings for registry fetches.
type SourceCacheContext struct {
	// MaxAge is the maximum age for cached entries.
	MaxAge time.Duration

	// NoCache skips cache reads. Fresh responses are still written so
	// the next run benefits.
	NoCache bool

	// SessionID correlates every fetch of one run in logs.
	SessionID string
}

// NewSourceCacheContext creates a cache context with defaults.
func NewSourceCacheContext() *SourceCacheContext {
	return &SourceCacheContext{
		MaxAge:    DefaultMaxAge,
		SessionID: uuid.New().String(),
	}
}

// Clone creates a copy of the cache context.
func (scc *SourceCacheContext) Clone() *SourceCacheContext {
	return &SourceCacheContext{
		MaxAge:    scc.MaxAge,
		NoCache:   scc.NoCache,
		SessionID: scc.SessionID,
	}
}

// WithCacheContext adds the source cache context to the Go context so
// the registry layer can respect cache control flags without threading
// SourceCacheContext through every call.
func WithCacheContext(ctx context.Context, cacheCtx *SourceCacheContext) context.Context {
	if cacheCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, cacheContextKey, cacheCtx)
}

// FromContext retrieves the source cache context from the Go context.
// Returns nil if no cache context was set.
func FromContext(ctx context.Context) *SourceCacheContext {
	if ctx == nil {
		return nil
	}
	if cacheCtx, ok := ctx.Value(cacheContextKey).(*SourceCacheContext); ok {
		return cacheCtx
	}
	return nil
}
