package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rushteam/bookrec/cache"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/similarity"
)

// BuildCache 根据配置构建结果缓存。backend 为 none 时返回 nil
// （引擎以无缓存模式运行）。
func (c *Config) BuildCache(logger *slog.Logger) (*cache.Manager, error) {
	var backend cache.Backend

	switch c.Cache.Backend {
	case "none":
		return nil, nil

	case "redis":
		r, err := cache.NewRedis(c.Cache.Addr, c.Cache.DB, c.Cache.Prefix)
		if err != nil {
			return nil, fmt.Errorf("build redis cache: %w", err)
		}
		backend = r

	case "", "memory":
		// 零值由构造函数落默认（容量 1000 / 清扫 10s）
		backend = cache.NewMemoryWithSweep(c.Cache.MaxSize, seconds(c.Cache.SweepInterval))

	default:
		return nil, fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	return cache.NewManager(backend, cache.WithLogger(logger)), nil
}

// BuildFilters 根据配置构建候选过滤器链：黑名单 → 类目排除 → CEL 规则。
// CEL 表达式编译失败时整体报错，不静默跳过。
func (c *Config) BuildFilters() ([]filter.Filter, error) {
	var filters []filter.Filter

	if len(c.Filters.BlockedIDs) > 0 {
		filters = append(filters, filter.NewBlocklist(c.Filters.BlockedIDs))
	}
	if len(c.Filters.ExcludeCategories) > 0 {
		filters = append(filters, filter.NewCategories(c.Filters.ExcludeCategories))
	}
	for _, expr := range c.Filters.ExcludeRules {
		rule, err := filter.NewRule(expr)
		if err != nil {
			return nil, fmt.Errorf("compile exclude rule %q: %w", expr, err)
		}
		filters = append(filters, rule)
	}
	return filters, nil
}

// EngineOptions 把配置折算为引擎可选项。零值字段不产生选项，
// 由引擎默认值兜底。
func (c *Config) EngineOptions() []engine.Option {
	var opts []engine.Option

	if c.Engine.MaxConcurrent > 0 {
		opts = append(opts, engine.WithMaxConcurrent(c.Engine.MaxConcurrent))
	}
	if c.Engine.MaxPerCategory > 0 {
		opts = append(opts, engine.WithMaxPerCategory(c.Engine.MaxPerCategory))
	}
	if c.Engine.CandidateLimit > 0 {
		opts = append(opts, engine.WithCandidateLimit(c.Engine.CandidateLimit))
	}
	if c.Profile.DecayFactor > 0 {
		opts = append(opts, engine.WithDecayFactor(c.Profile.DecayFactor))
	}
	if c.Engine.Personalized.AffinityThreshold > 0 {
		opts = append(opts, engine.WithAffinityThreshold(c.Engine.Personalized.AffinityThreshold))
	}

	var similarTTL, personalizedTTL, trendingTTL time.Duration
	if c.Engine.Similar.TTL > 0 {
		similarTTL = seconds(c.Engine.Similar.TTL)
	}
	if c.Engine.Personalized.TTL > 0 {
		personalizedTTL = seconds(c.Engine.Personalized.TTL)
	}
	if c.Engine.Trending.TTL > 0 {
		trendingTTL = seconds(c.Engine.Trending.TTL)
	}
	if similarTTL > 0 || personalizedTTL > 0 || trendingTTL > 0 {
		opts = append(opts, engine.WithTTLs(similarTTL, personalizedTTL, trendingTTL))
	}

	if w := c.Scorer; w.Embedding > 0 || w.Category > 0 || w.Author > 0 || w.Tags > 0 {
		opts = append(opts, engine.WithWeights(similarity.Weights{
			Embedding: w.Embedding,
			Category:  w.Category,
			Author:    w.Author,
			Tags:      w.Tags,
		}))
	}
	return opts
}

// BuildEngine 一站式装配推荐引擎：缓存 + 过滤器 + 引擎参数。
func (c *Config) BuildEngine(catalog core.CatalogStore, embedder core.Embedder, logger *slog.Logger) (*engine.Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	mgr, err := c.BuildCache(logger)
	if err != nil {
		return nil, err
	}
	filters, err := c.BuildFilters()
	if err != nil {
		return nil, err
	}

	opts := c.EngineOptions()
	opts = append(opts, engine.WithLogger(logger))
	if mgr != nil {
		opts = append(opts, engine.WithCache(mgr))
	}
	if len(filters) > 0 {
		opts = append(opts, engine.WithFilters(filters...))
	}
	return engine.New(catalog, embedder, opts...), nil
}
