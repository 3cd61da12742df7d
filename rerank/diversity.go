// Package rerank 提供打分结果的重排：多样性约束与截断。
package rerank

import (
	"sort"

	"github.com/rushteam/bookrec/core"
)

// DefaultMaxPerCategory 是单一类目在结果中的默认占比上限。
const DefaultMaxPerCategory = 3

// uncategorized 是无类目物品的归组桶。
const uncategorized = "uncategorized"

// Diversify 对打分列表做多样性重排：按类目分组，轮转从每个类目取
// 当前最高分的剩余物品，单类目最多 maxPerCategory 个，凑满 targetSize
// 或所有类目耗尽为止，最终按分数降序返回。
//
// 类目的轮转顺序取输入中的首次出现顺序：输入通常已按分数降序，
// 因此高分类目优先进入结果。
//
// 边界：空输入原样返回；全部物品同类目时结果被钳制在 maxPerCategory，
// 即使 targetSize 更大。
func Diversify(items []*core.ScoredBook, maxPerCategory, targetSize int) []*core.ScoredBook {
	if len(items) == 0 {
		return items
	}
	if maxPerCategory <= 0 {
		maxPerCategory = DefaultMaxPerCategory
	}
	if targetSize <= 0 || targetSize > len(items) {
		targetSize = len(items)
	}

	// 按类目分组，记录首次出现顺序
	groups := make(map[string][]*core.ScoredBook)
	order := make([]string, 0, 8)
	for _, it := range items {
		if it == nil || it.Book == nil {
			continue
		}
		cate := it.Book.Category
		if cate == "" {
			cate = uncategorized
		}
		if _, ok := groups[cate]; !ok {
			order = append(order, cate)
		}
		groups[cate] = append(groups[cate], it)
	}

	// 组内按分数降序，方便每轮取头部
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Score > g[j].Score
		})
	}

	taken := make(map[string]int, len(groups))
	out := make([]*core.ScoredBook, 0, targetSize)

	for len(out) < targetSize {
		added := 0
		for _, cate := range order {
			if len(out) >= targetSize {
				break
			}
			g := groups[cate]
			if len(g) == 0 || taken[cate] >= maxPerCategory {
				continue
			}
			out = append(out, g[0])
			groups[cate] = g[1:]
			taken[cate]++
			added++
		}
		// 所有类目都取不出物品时终止，避免死循环
		if added == 0 {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
