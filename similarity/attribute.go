package similarity

import "strings"

// categoryClusters 是相关类目的静态聚类表：主类目 -> 成员类目。
// 命中规则：一方为主类目、另一方为成员 0.7；双方同为成员 0.6。
var categoryClusters = map[string][]string{
	"information technology": {"computer", "networking", "internet"},
	"learning":               {"education", "tutorial", "guide"},
	"fiction":                {"novel", "story"},
	"non-fiction":            {"biography", "history", "science"},
}

// Category 计算类目相似度：精确匹配（大小写不敏感）1.0，
// 聚类表命中 0.7/0.6，其余 0。任一侧为空返回 0。
func Category(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == lb {
		return 1.0
	}

	for head, members := range categoryClusters {
		if (la == head && contains(members, lb)) || (lb == head && contains(members, la)) {
			return 0.7
		}
		if contains(members, la) && contains(members, lb) {
			return 0.6
		}
	}
	return 0
}

// Author 计算作者相似度：精确匹配 1.0，否则按空白切词做 Jaccard。
// 作者名存在多种写法变体，词级重叠比整串匹配更稳。
func Author(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == lb {
		return 1.0
	}

	wordsA := tokenSet(la)
	wordsB := tokenSet(lb)

	overlap := 0
	for w := range wordsA {
		if wordsB[w] {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	union := len(wordsA) + len(wordsB) - overlap
	if union == 0 {
		return 0
	}
	return float64(overlap) / float64(union)
}

// Tags 计算标签集合的 Jaccard 相似度（大小写折叠）。任一侧为空返回 0。
func Tags(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[strings.ToLower(t)] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[strings.ToLower(t)] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
