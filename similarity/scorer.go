package similarity

import (
	"strings"

	"github.com/rushteam/bookrec/core"
)

// Weights 是语义相似度各分量的权重。
// 某个分量只有在两侧物品都携带对应属性时才参与计算，
// 最终得分按实际参与的权重之和归一化，属性缺失不构成惩罚。
type Weights struct {
	Embedding float64
	Category  float64
	Author    float64
	Tags      float64
}

// DefaultWeights 返回默认权重：向量为主，类目次之，作者/标签补充。
func DefaultWeights() Weights {
	return Weights{
		Embedding: 0.6,
		Category:  0.2,
		Author:    0.1,
		Tags:      0.1,
	}
}

// Semantic 计算两个物品的综合语义相似度，结果在 [0,1]。
// 没有任何可比较的属性对时返回 0。
func Semantic(a, b *core.Book, w Weights) float64 {
	if a == nil || b == nil {
		return 0
	}

	var total, totalWeight float64

	if a.HasEmbedding() && b.HasEmbedding() {
		total += Cosine(a.Embedding, b.Embedding) * w.Embedding
		totalWeight += w.Embedding
	}
	if a.Category != "" && b.Category != "" {
		total += Category(a.Category, b.Category) * w.Category
		totalWeight += w.Category
	}
	if a.Author != "" && b.Author != "" {
		total += Author(a.Author, b.Author) * w.Author
		totalWeight += w.Author
	}
	if len(a.Tags) > 0 && len(b.Tags) > 0 {
		total += Tags(a.Tags, b.Tags) * w.Tags
		totalWeight += w.Tags
	}

	if totalWeight == 0 {
		return 0
	}
	return total / totalWeight
}

// 用户画像各分量的固定权重。
const (
	affinityEmbeddingWeight = 0.5
	affinityCategoryWeight  = 0.3
	affinityAuthorWeight    = 0.2
)

// Affinity 计算用户画像与物品的亲和度，结果在 [0,1]。
//
// 三个分量：偏好向量 vs 物品向量（0.5）、类目偏好命中（0.3）、
// 作者偏好命中（0.2）。与 Semantic 同理，按实际参与的权重归一化：
// 画像缺少偏好向量时，得分完全由类目/作者信号决定。
func Affinity(profile *core.UserProfile, book *core.Book) float64 {
	if profile == nil || book == nil {
		return 0
	}

	var total, totalWeight float64

	if profile.HasPreferenceEmbedding() && book.HasEmbedding() {
		total += Cosine(profile.PreferenceEmbedding, book.Embedding) * affinityEmbeddingWeight
		totalWeight += affinityEmbeddingWeight
	}

	if len(profile.FavoriteCategories) > 0 && book.Category != "" {
		total += bestMatch(profile.FavoriteCategories, book.Category, 0.7) * affinityCategoryWeight
		totalWeight += affinityCategoryWeight
	}

	if len(profile.FavoriteAuthors) > 0 && book.Author != "" {
		total += bestMatch(profile.FavoriteAuthors, book.Author, 0.8) * affinityAuthorWeight
		totalWeight += affinityAuthorWeight
	}

	if totalWeight == 0 {
		return 0
	}
	return total / totalWeight
}

// bestMatch 在偏好列表中找最优命中：精确匹配 1.0，子串（任一方向）
// 按 partial 计，无命中 0。
func bestMatch(favorites []string, value string, partial float64) float64 {
	lv := strings.ToLower(value)
	best := 0.0
	for _, fav := range favorites {
		lf := strings.ToLower(fav)
		if lf == lv {
			return 1.0
		}
		if strings.Contains(lv, lf) || strings.Contains(lf, lv) {
			if partial > best {
				best = partial
			}
		}
	}
	return best
}
