package engine

import (
	"context"

	"github.com/rushteam/bookrec/cache"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/rerank"
	"github.com/rushteam/bookrec/similarity"
)

// Source 标记个性化结果的产生路径，调用方与测试可据此区分
// 正常计算与冷启动回退，而不是靠比对 payload 推断。
type Source string

const (
	// SourceComputed 表示基于用户画像正常计算
	SourceComputed Source = "computed"

	// SourceFallbackTrending 表示冷启动回退到热门列表
	SourceFallbackTrending Source = "fallback_trending"
)

// PersonalizedResult 是个性化推荐的带标记结果。
type PersonalizedResult struct {
	Books  []*core.ScoredBook `json:"books"`
	Source Source             `json:"source"`
}

// PersonalizedOptions 是个性化推荐的请求参数。
type PersonalizedOptions struct {
	// Limit 返回数量上限（默认 10）
	Limit int

	// ExcludePurchased 是否排除已购物品
	ExcludePurchased bool
}

func (o *PersonalizedOptions) applyDefaults() {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
}

// Personalized 返回基于用户行为的个性化推荐。
//
// 用户画像从交互历史现场重建（时间衰减 × 行为权重），候选按
// 画像亲和度打分。没有任何交互历史时冷启动回退到热门列表：
// 回退结果带 SourceFallbackTrending 标记，且不写入个性化缓存 key
// （避免把热门列表冒充个性化结果缓存住）。
func (e *Engine) Personalized(ctx context.Context, userID string, opts PersonalizedOptions) (*PersonalizedResult, error) {
	e.stats.PersonalizedRequests.Add(1)
	opts.applyDefaults()

	key := cache.Key("personalized", map[string]any{
		"user_id":           userID,
		"limit":             opts.Limit,
		"exclude_purchased": opts.ExcludePurchased,
	})
	var cached PersonalizedResult
	if e.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	interactions, err := e.catalog.GetInteractions(ctx, userID)
	if err != nil {
		e.logger.Warn("personalized: load interactions failed", "user", userID, "err", err)
		e.stats.DegradedResults.Add(1)
		return &PersonalizedResult{Books: []*core.ScoredBook{}, Source: SourceComputed}, nil
	}

	// 冷启动：无交互历史，回退热门
	if len(interactions) == 0 {
		e.logger.Info("personalized: cold start, falling back to trending", "user", userID)
		e.stats.ColdStartFallbacks.Add(1)
		books, _ := e.Trending(ctx, TrendingOptions{Limit: opts.Limit})
		return &PersonalizedResult{Books: books, Source: SourceFallbackTrending}, nil
	}

	profile := e.buildUserProfile(ctx, userID, interactions)

	var excludeIDs []string
	if opts.ExcludePurchased {
		excludeIDs, err = e.catalog.GetPurchasedBookIDs(ctx, userID)
		if err != nil {
			// 已购列表拿不到时继续推荐，宁可重复也不清空
			e.logger.Warn("personalized: load purchased failed", "user", userID, "err", err)
			excludeIDs = nil
		}
	}

	candidates, err := e.catalog.ListCandidates(ctx, core.CandidateQuery{
		ExcludeIDs: excludeIDs,
		Limit:      e.candidateLimit,
	})
	if err != nil {
		e.logger.Warn("personalized: list candidates failed", "user", userID, "err", err)
		e.stats.DegradedResults.Add(1)
		return &PersonalizedResult{Books: []*core.ScoredBook{}, Source: SourceComputed}, nil
	}
	candidates = filter.Apply(ctx, e.filters, candidates)

	scored := e.scoreCandidates(candidates, func(c *core.Book) *core.ScoredBook {
		if _, err := e.bookEmbedding(ctx, c); err != nil {
			e.logger.Warn("personalized: candidate embedding failed", "book", c.ID, "err", err)
			return nil
		}
		affinity := similarity.Affinity(profile, c)
		if affinity <= e.affinityThreshold {
			return nil
		}
		return &core.ScoredBook{
			Book:   c,
			Score:  affinity,
			Reason: personalizedReason(profile, c),
		}
	})

	sortByScore(scored)
	if len(scored) > opts.Limit*2 {
		scored = scored[:opts.Limit*2]
	}
	out := rerank.Diversify(scored, e.maxPerCategory, opts.Limit)
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}

	result := &PersonalizedResult{Books: out, Source: SourceComputed}
	e.cacheSet(ctx, key, result, e.personalizedTTL)
	e.stats.RecommendationsGenerated.Add(1)
	return result, nil
}
