package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/refit/pkg/buildinfo"
	"github.com/matzehuels/refit/pkg/cache"
	"github.com/matzehuels/refit/pkg/design"
	"github.com/matzehuels/refit/pkg/observability"
	"github.com/matzehuels/refit/pkg/remap"
)

// Runner encapsulates remap execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Options remap.Options

	// TTL is how long computed payloads stay cached.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts remap.Options) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Options: opts,
		TTL:     cache.TTLPayload,
	}
}

// Remap runs one pass, serving it from the cache when an identical request
// was computed before. The boolean reports a cache hit.
//
// An idle request (source or target missing) returns (nil, false, nil).
// Cache failures never fail the pass; they are logged and the payload is
// recomputed.
func (r *Runner) Remap(ctx context.Context, in remap.Input) (*remap.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !in.Ready() {
		r.Logger.Debug("remap idle", "source", in.Source != nil, "target", in.Target != nil)
		return nil, false, nil
	}

	key, cacheable := r.key(in)
	if cacheable {
		if res, ok := r.lookup(ctx, key); ok {
			r.Logger.Debug("remap served from cache",
				"source", in.Source.Container.Name,
				"target", in.Target.Name)
			return res, true, nil
		}
	}

	res, err := r.compute(ctx, in)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		r.store(ctx, key, res)
	}
	return res, false, nil
}

// RemapBatch runs many passes with at most limit in flight. Failures are
// reported per item and never stop the rest of the batch. A cancelled
// context fails the items that have not started yet.
func (r *Runner) RemapBatch(ctx context.Context, inputs []remap.Input, limit int) []BatchItem {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	items := make([]BatchItem, len(inputs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range inputs {
		i := i
		g.Go(func() error {
			res, hit, err := r.Remap(ctx, inputs[i])
			items[i] = BatchItem{Index: i, Result: res, CacheHit: hit, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	r.Logger.Debug("batch complete", "requests", len(inputs), "limit", limit)
	return items
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) compute(ctx context.Context, in remap.Input) (*remap.Result, error) {
	src, dst := in.Source.Container.Name, in.Target.Name
	hooks := observability.Engine()
	hooks.OnRemapStart(ctx, src, dst, design.CountLayers(in.Source.Layers))

	start := time.Now()
	res, err := remap.Remap(in, r.Options)
	elapsed := time.Since(start)
	hooks.OnRemapComplete(ctx, src, dst, elapsed, err)

	if err != nil {
		r.Logger.Warn("remap failed", "source", src, "target", dst, "err", err)
		return nil, err
	}

	for _, d := range res.Diagnostics {
		hooks.OnDiagnostic(ctx, string(d.Code), d.LayerID)
		r.Logger.Warn(d.Message, "code", d.Code, "layer", d.LayerID)
	}

	r.Logger.Info("remapped design",
		"source", src,
		"target", dst,
		"layers", res.Payload.LayerCount(),
		"scale", res.Payload.ScaleFactor,
		"duration", elapsed)
	return res, nil
}

// key derives the cache key for in. Inputs that cannot be encoded are not
// cacheable; the pass itself reports why they are invalid.
func (r *Runner) key(in remap.Input) (string, bool) {
	hash, err := cache.HashJSON(in)
	if err != nil {
		r.Logger.Debug("request not cacheable", "err", err)
		return "", false
	}
	return r.Keyer.PayloadKey(hash, cache.PayloadKeyOpts{
		FlowMargin:       r.Options.FlowMargin,
		CollisionPadding: r.Options.CollisionPadding,
		EngineVersion:    buildinfo.EngineVersion(),
	}), true
}

func (r *Runner) lookup(ctx context.Context, key string) (*remap.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var res remap.Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Fall through to recompute; the fresh entry overwrites this one.
		r.Logger.Debug("discarding undecodable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *remap.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		r.Logger.Warn("encode payload for cache", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
