package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/mindcanvas/pkg/cache"
	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/observability"
	"github.com/matzehuels/mindcanvas/pkg/render"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// Runner executes the pipeline with caching.
//
// The Runner keeps no pipeline results itself. Concurrent calls with the
// same cache key share one computation; frames returned from a shared or
// cached computation must be treated as read-only.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the cache lifetime of frames and artifacts.
	TTL time.Duration

	group singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute computes the frame for t and renders opts.Formats.
func (r *Runner) Execute(ctx context.Context, t tree.Tree, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	ctx, span := observability.StartSpan(ctx, "pipeline.Execute",
		attribute.Int("nodes", t.Len()),
		attribute.StringSlice("formats", opts.Formats),
	)
	defer span.End()

	result := &Result{}

	// Stage 1: Frame
	start := time.Now()
	f, st, hit, err := r.FrameWithCacheInfo(ctx, t, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	result.Frame = f
	result.Stats = st
	result.CacheInfo.FrameHit = hit
	result.TreeHash = treeHash(t)

	r.Logger.Info("computed frame",
		"nodes", st.LaidOut,
		"visible", st.Visible,
		"culled", st.Culled,
		"cached", hit,
		"duration", time.Since(start))
	r.logWarnings(f.Warnings)

	// Stage 2: Render
	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, f, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.Stats.Pool = render.PoolStats()
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FrameWithCacheInfo computes the frame for t with caching and reports
// whether it came from the cache.
func (r *Runner) FrameWithCacheInfo(ctx context.Context, t tree.Tree, opts Options) (*frame.Frame, Stats, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, false, err
	}
	hooks := observability.Cache()
	key := r.Keyer.FrameKey(treeHash(t), opts.FrameKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if f, err := frame.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, "frame")
				r.Logger.Debug("frame cache hit", "key", key)
				return f, statsOf(f, t.Len()), true, nil
			}
			// Unreadable entries fall through to recompute.
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "frame")
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		f, st, err := ComputeFrame(ctx, t, opts)
		if err != nil {
			return nil, err
		}
		return computed{frame: f, stats: st}, nil
	})
	if err != nil {
		return nil, Stats{}, false, err
	}
	c := v.(computed)
	if shared {
		r.Logger.Debug("joined in-flight frame computation", "key", key)
	}

	if data, err := frame.Marshal(c.frame); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLFrame)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "frame", len(data))
		}
	}
	return c.frame, c.stats, false, nil
}

// Frame is FrameWithCacheInfo without the cache information.
func (r *Runner) Frame(ctx context.Context, t tree.Tree, opts Options) (*frame.Frame, error) {
	f, _, _, err := r.FrameWithCacheInfo(ctx, t, opts)
	return f, err
}

// RenderWithCacheInfo renders f in every requested format with caching and
// reports whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *frame.Frame, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	frameData, err := frame.Marshal(f)
	if err != nil {
		return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(frameData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, f, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) logWarnings(ws []tree.Warning) {
	if len(ws) == 0 {
		return
	}
	counts := tree.CountByKind(ws)
	kv := make([]any, 0, 2*len(counts))
	for kind, n := range counts {
		kv = append(kv, string(kind), n)
	}
	r.Logger.Warn(fmt.Sprintf("snapshot has %d structural warnings", len(ws)), kv...)
	for _, w := range ws {
		r.Logger.Debug("warning", "kind", w.Kind, "node", w.NodeID, "detail", w.Detail)
	}
}

type computed struct {
	frame *frame.Frame
	stats Stats
}

// treeHash hashes the canonical snapshot encoding of t.
func treeHash(t tree.Tree) string {
	data, err := tree.Marshal(t)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// statsOf reconstructs size statistics for a cached frame.
func statsOf(f *frame.Frame, inputNodes int) Stats {
	return Stats{
		InputNodes: inputNodes,
		LaidOut:    len(f.Nodes),
		Visible:    len(f.VisibleIDs()),
		Culled:     f.Culled,
		Edges:      len(f.Edges),
		Warnings:   len(f.Warnings),
	}
}
