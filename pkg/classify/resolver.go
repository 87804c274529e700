// Package classify attaches a best-effort category label to entity names.
// Resolution consults a static override table, the in-memory cache and the
// reference index before falling back to a rate-limited external lookup.
// A Resolver is constructed once per process and passed by reference to
// every caller; it holds no package-level state so tests can instantiate
// isolated resolvers.
package classify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/actorgraph/actorgraph/internal/metrics"
	"github.com/actorgraph/actorgraph/internal/util"
	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/logger"
	"github.com/actorgraph/actorgraph/pkg/names"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Reference resolves a name against the curated catalog before any
// external lookup happens. Implemented by catalog.Index.
type Reference interface {
	Classify(name string) (common.Category, bool)
}

// Lookup performs the external "what is this name an instance of" query
// and returns zero or more raw class identifiers.
type Lookup interface {
	InstancesOf(ctx context.Context, name string) ([]string, error)
}

// Resolver is the cached, rate-limited classification resolver. All
// mutable state (cache, in-flight map, limiter clock) lives on the
// instance and is safe for concurrent use.
type Resolver struct {
	reference Reference
	lookup    Lookup
	limiter   *rate.Limiter
	overrides map[string]common.Category

	maxRetries  int
	maxParallel int

	mu    sync.RWMutex
	cache map[string]common.Category
	group singleflight.Group
}

// NewResolverParams configures a Resolver.
//
// Reference may be nil when no catalog is loaded. MinInterval is the
// global minimum spacing between external lookups across all concurrent
// callers; it defaults to 150ms. MaxParallel bounds ClassifyAll's
// concurrency and defaults to 8.
type NewResolverParams struct {
	Reference   Reference
	Lookup      Lookup
	MinInterval time.Duration
	MaxRetries  int
	MaxParallel int
}

// NewResolver creates a Resolver with an empty cache.
func NewResolver(params NewResolverParams) *Resolver {
	interval := params.MinInterval
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}
	maxParallel := params.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 8
	}
	return &Resolver{
		reference:   params.Reference,
		lookup:      params.Lookup,
		limiter:     rate.NewLimiter(rate.Every(interval), 1),
		overrides:   manualOverrides,
		maxRetries:  maxRetries,
		maxParallel: maxParallel,
		cache:       make(map[string]common.Category),
	}
}

// Classify resolves the category for a name. Resolution order: manual
// override table, cache, reference index, an already in-flight lookup for
// the same canonical name, fresh external lookup. Lookup failures are
// downgraded to CategoryUnknown and cached so they are not retried.
// Classify never returns an error; an empty name classifies as unknown
// without touching the cache.
func (r *Resolver) Classify(ctx context.Context, name string) common.Category {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return common.CategoryUnknown
	}

	rawKey := strings.ToLower(trimmed)
	normKey := names.Key(trimmed)

	if cat, ok := r.overrides[normKey]; ok {
		return cat
	}

	if cat, ok := r.cached(rawKey, normKey); ok {
		metrics.ClassifyCacheHits.Inc()
		return cat
	}

	if r.reference != nil {
		if cat, ok := r.reference.Classify(trimmed); ok {
			metrics.ClassifyReferenceHits.Inc()
			r.store(rawKey, normKey, cat)
			return cat
		}
	}

	// Concurrent callers for the same canonical name join the first
	// caller's pending lookup instead of dispatching their own.
	result, _, _ := r.group.Do(normKey, func() (any, error) {
		if cat, ok := r.cached(rawKey, normKey); ok {
			return cat, nil
		}
		cat := r.resolveExternal(ctx, trimmed)
		r.store(rawKey, normKey, cat)
		return cat, nil
	})

	return result.(common.Category)
}

// ClassifyAll labels every node in the graph that does not already carry a
// category, with bounded parallelism. Nodes are mutated in place.
func (r *Resolver) ClassifyAll(ctx context.Context, g *common.Graph) error {
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.maxParallel)

	for _, node := range g.Nodes {
		if node.Category != "" {
			continue
		}
		n := node
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
				n.Category = r.Classify(gCtx, n.DisplayName)
				return nil
			}
		})
	}

	return eg.Wait()
}

// ClearCache drops every cached classification. Cached results are
// otherwise held for the process lifetime, including negative results.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]common.Category)
}

// CacheSize returns the number of cached name keys.
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Resolver) cached(keys ...string) (common.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, key := range keys {
		if cat, ok := r.cache[key]; ok {
			return cat, true
		}
	}
	return "", false
}

// store populates the cache under both the original and the normalized
// form of the name so later lookups for either short-circuit.
func (r *Resolver) store(rawKey, normKey string, cat common.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[rawKey] = cat
	r.cache[normKey] = cat
}

// resolveExternal waits for the shared limiter, dispatches the lookup and
// aggregates the returned class identifiers. Any failure yields unknown.
func (r *Resolver) resolveExternal(ctx context.Context, name string) common.Category {
	if r.lookup == nil {
		return common.CategoryUnknown
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return common.CategoryUnknown
	}

	metrics.ClassifyLookups.Inc()
	classes, err := util.RetryWithContext(ctx, r.maxRetries, func(ctx context.Context) ([]string, error) {
		return r.lookup.InstancesOf(ctx, name)
	})
	if err != nil {
		metrics.ClassifyLookupFailures.Inc()
		logger.Warn("[Classify] External lookup failed", "name", name, "err", err)
		return common.CategoryUnknown
	}

	return Aggregate(classes)
}

// Aggregate maps raw class identifiers onto the closed category set,
// tallies the matches and returns the most frequent category. Ties break
// by the fixed priority order; identifiers that map to nothing are
// ignored, and an empty tally yields unknown.
func Aggregate(classes []string) common.Category {
	tally := make(map[common.Category]int)
	for _, class := range classes {
		if cat, ok := classCategories[class]; ok {
			tally[cat]++
		}
	}
	if len(tally) == 0 {
		return common.CategoryUnknown
	}

	best := common.CategoryUnknown
	bestCount := -1
	for _, cat := range common.Categories {
		count, ok := tally[cat]
		if !ok {
			continue
		}
		if count > bestCount {
			best = cat
			bestCount = count
		}
	}
	return best
}
