package engine

import (
	"strings"

	"github.com/rushteam/bookrec/core"
)

// similarityReason 生成相似推荐的可读理由。
func similarityReason(target, candidate *core.Book) string {
	var reasons []string

	if target.Category != "" && strings.EqualFold(target.Category, candidate.Category) {
		reasons = append(reasons, "same category ("+target.Category+")")
	}
	if target.Author != "" && strings.EqualFold(target.Author, candidate.Author) {
		reasons = append(reasons, "same author ("+target.Author+")")
	}
	if common := commonTags(target.Tags, candidate.Tags, 2); len(common) > 0 {
		reasons = append(reasons, "similar topics ("+strings.Join(common, ", ")+")")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "similar content themes")
	}
	return "Recommended because of " + strings.Join(reasons, ", ")
}

// personalizedReason 生成个性化推荐的可读理由。
func personalizedReason(profile *core.UserProfile, book *core.Book) string {
	var reasons []string

	for _, cate := range profile.FavoriteCategories {
		if strings.EqualFold(cate, book.Category) {
			reasons = append(reasons, "you enjoy "+book.Category+" books")
			break
		}
	}
	for _, author := range profile.FavoriteAuthors {
		if strings.EqualFold(author, book.Author) {
			reasons = append(reasons, "you like books by "+book.Author)
			break
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "matches your reading preferences")
	}
	return "Recommended because " + strings.Join(reasons, ", ")
}

// commonTags 返回两个标签集的交集（大小写折叠，保持第一个集合的顺序），
// 最多 limit 个。
func commonTags(a, b []string, limit int) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[strings.ToLower(t)] = true
	}
	var out []string
	for _, t := range a {
		if setB[strings.ToLower(t)] {
			out = append(out, t)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
