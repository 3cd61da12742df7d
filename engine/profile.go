package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/bookrec/core"
)

const (
	maxFavoriteCategories = 5
	maxFavoriteAuthors    = 3

	// textPoolThreshold 是交互进入偏好文本池的最终权重门槛。
	textPoolThreshold = 0.5

	// minTimeWeight 是时间衰减的下限：再老的交互也保留 0.1 的权重。
	minTimeWeight = 0.1
)

// buildUserProfile 从交互历史重建用户画像。
//
// 每条交互的最终权重 = 行为固定权重 × 时间衰减
// max(0.1, 1 - daysOld*decay/365)，按权重累积类目/作者计分；
// 最终权重超过 0.5 的交互贡献物品文本（重复 floor(weight) 次以
// 偏置平均值）进入文本池，池子的批量向量取均值作为偏好向量。
// 池子为空时偏好向量缺省，亲和度退化为类目/作者信号。
func (e *Engine) buildUserProfile(ctx context.Context, userID string, interactions []*core.Interaction) *core.UserProfile {
	e.stats.ProfilesBuilt.Add(1)

	profile := core.NewUserProfile(userID)
	profile.InteractionCount = len(interactions)

	categories := make(map[string]float64)
	authors := make(map[string]float64)
	var pool []string

	now := time.Now()
	for _, it := range interactions {
		if it == nil || it.Book == nil {
			continue
		}

		daysOld := now.Sub(it.Timestamp).Hours() / 24
		if daysOld < 0 {
			daysOld = 0
		}
		timeWeight := 1.0 - daysOld*e.decayFactor/365
		if timeWeight < minTimeWeight {
			timeWeight = minTimeWeight
		}
		weight := it.Kind.Weight() * timeWeight
		if weight <= 0 {
			continue
		}

		if it.Book.Category != "" {
			categories[it.Book.Category] += weight
		}
		if it.Book.Author != "" {
			authors[it.Book.Author] += weight
		}

		if weight > textPoolThreshold {
			text, _ := e.normalize(bookText(it.Book))
			for i := 0; i < int(weight); i++ {
				pool = append(pool, text)
			}
		}
	}

	profile.FavoriteCategories = topKeys(categories, maxFavoriteCategories)
	profile.FavoriteAuthors = topKeys(authors, maxFavoriteAuthors)

	if len(pool) > 0 {
		vec, err := e.meanEmbedding(ctx, pool)
		if err != nil {
			e.logger.Warn("profile: preference embedding failed", "user", userID, "err", err)
		} else {
			profile.PreferenceEmbedding = vec
		}
	}

	return profile
}

// meanEmbedding 分块批量生成文本向量并取均值。分块上限 32 以约束
// 编码时的峰值内存。
func (e *Engine) meanEmbedding(ctx context.Context, texts []string) ([]float64, error) {
	var (
		sum   []float64
		count int
	)
	for start := 0; start < len(texts); start += e.embedChunkSize {
		end := start + e.embedChunkSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, v := range vecs {
			if len(v) == 0 {
				continue
			}
			if sum == nil {
				sum = make([]float64, len(v))
			}
			if len(v) != len(sum) {
				e.logger.Warn("profile: embedding dimension mismatch in batch",
					"got", len(v), "want", len(sum))
				continue
			}
			for i := range v {
				sum[i] += v[i]
			}
			count++
		}
	}
	if count == 0 {
		return nil, core.ErrEmbedderUnavailable
	}
	for i := range sum {
		sum[i] /= float64(count)
	}
	return sum, nil
}

// topKeys 返回累积权重最高的 k 个键，权重降序、同权按名称升序保证确定性。
func topKeys(weights map[string]float64, k int) []string {
	type kw struct {
		key    string
		weight float64
	}
	all := make([]kw, 0, len(weights))
	for key, w := range weights {
		all = append(all, kw{key: key, weight: w})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].weight != all[j].weight {
			return all[i].weight > all[j].weight
		}
		return all[i].key < all[j].key
	})
	if len(all) > k {
		all = all[:k]
	}
	out := make([]string, 0, len(all))
	for _, e := range all {
		out = append(out, e.key)
	}
	return out
}
