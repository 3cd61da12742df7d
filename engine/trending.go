package engine

import (
	"context"
	"fmt"

	"github.com/rushteam/bookrec/cache"
	"github.com/rushteam/bookrec/core"
)

// TrendingOptions 是热门推荐的请求参数。
type TrendingOptions struct {
	// Limit 返回数量上限（默认 10）
	Limit int

	// WindowDays 统计窗口天数（默认 30）
	WindowDays int

	// MinInteractions 入榜所需的购买+交互总数下限（默认 5）
	MinInteractions int
}

func (o *TrendingOptions) applyDefaults() {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.WindowDays <= 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.MinInteractions <= 0 {
		o.MinInteractions = DefaultMinInteractions
	}
}

// Trending 返回窗口内的热门物品列表。
//
// 热度由存储侧聚合（purchase*2 + interaction），引擎把热度折算为
// [0,1] 分数并复核入榜门槛。存储不可达时返回空列表而不是报错。
func (e *Engine) Trending(ctx context.Context, opts TrendingOptions) ([]*core.ScoredBook, error) {
	e.stats.TrendingRequests.Add(1)
	opts.applyDefaults()

	key := cache.Key("trending", map[string]any{
		"limit":            opts.Limit,
		"window_days":      opts.WindowDays,
		"min_interactions": opts.MinInteractions,
	})
	var cached []*core.ScoredBook
	if e.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := e.catalog.GetTrending(ctx, opts.WindowDays, opts.MinInteractions, opts.Limit)
	if err != nil {
		e.logger.Warn("trending: aggregate failed", "err", err)
		e.stats.DegradedResults.Add(1)
		return []*core.ScoredBook{}, nil
	}

	out := make([]*core.ScoredBook, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.Book == nil {
			continue
		}
		// 复核门槛：聚合侧未过滤时在此兜底
		if row.PurchaseCount+row.InteractionCount < opts.MinInteractions {
			continue
		}
		score := row.TrendScore / 100.0
		if score > 1.0 {
			score = 1.0
		}
		out = append(out, &core.ScoredBook{
			Book:   row.Book,
			Score:  score,
			Reason: fmt.Sprintf("Trending with %d recent purchases", row.PurchaseCount),
		})
		if len(out) >= opts.Limit {
			break
		}
	}

	e.cacheSet(ctx, key, out, e.trendingTTL)
	e.stats.RecommendationsGenerated.Add(1)
	return out, nil
}
