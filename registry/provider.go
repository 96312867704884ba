package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/cratecompat/cratecompat/cache"
	"github.com/cratecompat/cratecompat/observability"
)

// CachingProvider serves registry lookups through the disk cache. Cache
// entries hold the decoded payloads, so a hit never touches the network
// or the API response format.
type CachingProvider struct {
	api      *APIClient
	cache    *cache.DiskCache
	cacheCtx *cache.SourceCacheContext
	logger   observability.Logger
}

// NewCachingProvider wraps an API client with read-through caching.
// A nil cacheCtx gets the defaults, a nil diskCache disables caching.
func NewCachingProvider(api *APIClient, diskCache *cache.DiskCache, cacheCtx *cache.SourceCacheContext, logger observability.Logger) (*CachingProvider, error) {
	if api == nil {
		return nil, errors.New("registry: api client is required")
	}
	if cacheCtx == nil {
		cacheCtx = cache.NewSourceCacheContext()
	}
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	return &CachingProvider{
		api:      api,
		cache:    diskCache,
		cacheCtx: cacheCtx,
		logger:   logger.ForContext("SessionID", cacheCtx.SessionID),
	}, nil
}

// BaseURL returns the underlying registry base URL.
func (p *CachingProvider) BaseURL() string {
	return p.api.BaseURL()
}

// Dependencies returns the dependency list of one published crate
// version, from cache when possible.
func (p *CachingProvider) Dependencies(ctx context.Context, crate, version string) ([]Dependency, error) {
	ctx, span := observability.StartDependencyFetchSpan(ctx, crate, version, p.api.BaseURL())
	defer span.End()

	cacheKey := fmt.Sprintf("deps_%s_%s", crate, version)

	var deps []Dependency
	if p.lookup(ctx, cacheKey, &deps) {
		p.logger.DebugContext(ctx, "Dependencies of {Crate} {Version} served from cache", crate, version)
		return deps, nil
	}

	deps, err := p.api.Dependencies(ctx, crate, version)
	if err != nil {
		observability.CrateFetchesTotal.WithLabelValues("dependencies", "failure").Inc()
		observability.EndSpanWithError(span, err)
		return nil, err
	}
	observability.CrateFetchesTotal.WithLabelValues("dependencies", "success").Inc()

	p.store(ctx, cacheKey, deps)
	return deps, nil
}

// PublishedVersions returns every version of a crate in ascending order.
func (p *CachingProvider) PublishedVersions(ctx context.Context, crate string) ([]PublishedVersion, error) {
	ctx, span := observability.StartVersionsFetchSpan(ctx, crate, p.api.BaseURL())
	defer span.End()

	cacheKey := "versions_" + crate

	var infos []VersionInfo
	if p.lookup(ctx, cacheKey, &infos) {
		p.logger.DebugContext(ctx, "Published versions of {Crate} served from cache", crate)
		return toPublished(crate, infos)
	}

	infos, err := p.api.Versions(ctx, crate)
	if err != nil {
		observability.CrateFetchesTotal.WithLabelValues("versions", "failure").Inc()
		observability.EndSpanWithError(span, err)
		return nil, err
	}
	observability.CrateFetchesTotal.WithLabelValues("versions", "success").Inc()

	p.store(ctx, cacheKey, infos)
	return toPublished(crate, infos)
}

// cacheContext returns the cache settings for this call. A context-carried
// override wins over the provider's own settings.
func (p *CachingProvider) cacheContext(ctx context.Context) *cache.SourceCacheContext {
	if scc := cache.FromContext(ctx); scc != nil {
		return scc
	}
	return p.cacheCtx
}

// lookup reads a cache entry into out, reporting whether it hit. A
// corrupt entry counts as a miss so the refetch overwrites it.
func (p *CachingProvider) lookup(ctx context.Context, cacheKey string, out any) bool {
	if p.cache == nil {
		return false
	}
	scc := p.cacheContext(ctx)
	if scc.NoCache {
		return false
	}

	ctx, span := observability.StartCacheLookupSpan(ctx, cacheKey)
	defer span.End()

	data, ok := p.cache.Get(p.api.BaseURL(), cacheKey, scc.MaxAge)
	observability.RecordCacheHit(ctx, ok)
	if !ok {
		observability.CacheMissesTotal.WithLabelValues("disk").Inc()
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		p.logger.WarnContext(ctx, "Corrupt cache entry {CacheKey}: {Error}", cacheKey, err)
		observability.CacheMissesTotal.WithLabelValues("disk").Inc()
		return false
	}

	observability.CacheHitsTotal.WithLabelValues("disk").Inc()
	return true
}

// store writes a payload to the cache. Failures only cost future cache
// hits, so they are logged rather than returned.
func (p *CachingProvider) store(ctx context.Context, cacheKey string, payload any) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err == nil {
		err = p.cache.Set(p.api.BaseURL(), cacheKey, bytes.NewReader(data), validateJSON)
	}
	if err != nil {
		p.logger.WarnContext(ctx,
			"Failed to cache {CacheKey}: {Error}; repeated requests without caching increase the chance of rate limiting",
			cacheKey, err)
	}
}

func validateJSON(r io.ReadSeeker) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return errors.New("payload is not valid JSON")
	}
	return nil
}

// toPublished parses and sorts the registry's version rows. The API
// returns them newest first; the engine wants them ascending.
func toPublished(crate string, infos []VersionInfo) ([]PublishedVersion, error) {
	out := make([]PublishedVersion, 0, len(infos))
	for _, info := range infos {
		v, err := semver.NewVersion(info.Num)
		if err != nil {
			return nil, fmt.Errorf("crate %s: parse published version %q: %w", crate, info.Num, err)
		}
		out = append(out, PublishedVersion{
			Version:     v,
			Num:         info.Num,
			Yanked:      info.Yanked,
			RustVersion: info.RustVersion,
		})
	}

	slices.SortFunc(out, func(a, b PublishedVersion) int {
		return a.Version.Compare(b.Version)
	})
	return out, nil
}
