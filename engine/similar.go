package engine

import (
	"context"
	"sort"

	"github.com/rushteam/bookrec/cache"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/rerank"
	"github.com/rushteam/bookrec/similarity"
)

// SimilarOptions 是相似推荐的请求参数。零值字段使用默认值。
type SimilarOptions struct {
	// Limit 返回数量上限（默认 10）
	Limit int

	// MinSimilarity 相似度门槛（默认 0.3）
	MinSimilarity float64

	// ExcludeCategories 排除的类目
	ExcludeCategories []string
}

func (o *SimilarOptions) applyDefaults() {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
}

// SimilarBooks 返回与目标物品内容相似的推荐列表。
//
// 基于内容的过滤：向量余弦 + 类目/作者/标签的加权综合分
// （similarity.Semantic），保留达到门槛的候选，降序排列后做多样性重排。
// 所有失败模式都降级为空/缩水结果，不向调用方报错
// （目标不存在、存储不可达、单个候选向量生成失败均如此）。
func (e *Engine) SimilarBooks(ctx context.Context, bookID string, opts SimilarOptions) ([]*core.ScoredBook, error) {
	e.stats.SimilarRequests.Add(1)
	opts.applyDefaults()

	key := cache.Key("similar", map[string]any{
		"book_id":        bookID,
		"limit":          opts.Limit,
		"min_similarity": opts.MinSimilarity,
	})
	var cached []*core.ScoredBook
	if e.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	target, err := e.catalog.GetBook(ctx, bookID)
	if err != nil {
		if core.IsNotFound(err) {
			e.logger.Info("similar: book not found", "book", bookID)
		} else {
			e.logger.Warn("similar: load target failed", "book", bookID, "err", err)
		}
		e.stats.DegradedResults.Add(1)
		return []*core.ScoredBook{}, nil
	}
	// 目标行同样只在请求内快照上补全向量
	target = snapshot(target)

	targetVec, err := e.bookEmbedding(ctx, target)
	if err != nil {
		e.logger.Warn("similar: target embedding failed", "book", bookID, "err", err)
		e.stats.DegradedResults.Add(1)
		return []*core.ScoredBook{}, nil
	}

	candidates, err := e.catalog.ListCandidates(ctx, core.CandidateQuery{
		ExcludeIDs:        []string{bookID},
		ExcludeCategories: opts.ExcludeCategories,
		Limit:             e.candidateLimit,
	})
	if err != nil {
		e.logger.Warn("similar: list candidates failed", "book", bookID, "err", err)
		e.stats.DegradedResults.Add(1)
		return []*core.ScoredBook{}, nil
	}
	candidates = filter.Apply(ctx, e.filters, candidates)

	scored := e.scoreCandidates(candidates, func(c *core.Book) *core.ScoredBook {
		vec, err := e.bookEmbedding(ctx, c)
		if err != nil {
			// 单个候选失败只跳过该候选，不影响整批
			e.logger.Warn("similar: candidate embedding failed", "book", c.ID, "err", err)
			return nil
		}
		if len(vec) != len(targetVec) {
			e.logger.Warn("similar: embedding dimension mismatch",
				"book", c.ID, "got", len(vec), "want", len(targetVec))
		}
		sim := similarity.Semantic(target, c, e.weights)
		if sim < opts.MinSimilarity {
			return nil
		}
		return &core.ScoredBook{
			Book:   c,
			Score:  sim,
			Reason: similarityReason(target, c),
		}
	})

	sortByScore(scored)
	// 多留一倍候选给多样性重排，再截断到 limit
	if len(scored) > opts.Limit*2 {
		scored = scored[:opts.Limit*2]
	}
	out := rerank.Diversify(scored, e.maxPerCategory, opts.Limit)
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}

	e.cacheSet(ctx, key, out, e.similarTTL)
	e.stats.RecommendationsGenerated.Add(1)
	return out, nil
}

// sortByScore 按分数降序稳定排序，同分按物品 ID 保证确定性
// （并发打分的追加顺序不确定）。
func sortByScore(items []*core.ScoredBook) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Book.ID < items[j].Book.ID
	})
}
